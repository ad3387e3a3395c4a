package clippings

import "regexp"

// Metadata is what a grammar extracts from the second line of a block.
type Metadata struct {
	Type     ClippingType
	Page     string
	Location string
	Date     string
}

// MetadataGrammar matches the metadata line of one export locale. Match
// returns false when the line is not in its format; it never fails otherwise.
type MetadataGrammar interface {
	Name() string
	Match(line string) (Metadata, bool)
}

// DefaultGrammars returns the built-in grammars in dispatch order. The Chinese
// grammar goes first so that the looser English pattern never sees its lines.
func DefaultGrammars() []MetadataGrammar {
	return []MetadataGrammar{
		ChineseGrammar{},
		EnglishGrammar{},
	}
}

// - 您在第 1656 页（位置 #18097-18097）的标注 | 添加于 2022年1月9日星期日 下午11:11:58
// - 您在位置 #117-118的标注 | 添加于 2018年8月5日星期日 上午8:06:49
var chineseMetadataPattern = regexp.MustCompile(
	`^- 您在(?:第 (?P<page>[\p{L}\p{N}_]*) 页)?(?:（?位置 #(?P<location>.*?)）?)?` +
		`的(?P<type>标注|笔记|书签) \| 添加于 (?P<date>.+)$`)

var chineseTypes = map[string]ClippingType{
	"标注": TypeHighlight,
	"笔记": TypeNote,
	"书签": TypeBookmark,
}

// ChineseGrammar matches metadata lines of Kindles set to Simplified Chinese.
type ChineseGrammar struct{}

func (ChineseGrammar) Name() string {
	return "chinese"
}

func (ChineseGrammar) Match(line string) (Metadata, bool) {
	m := chineseMetadataPattern.FindStringSubmatch(line)
	if m == nil {
		return Metadata{}, false
	}

	meta := Metadata{
		Type:     chineseTypes[group(chineseMetadataPattern, m, "type")],
		Location: group(chineseMetadataPattern, m, "location"),
		Date:     group(chineseMetadataPattern, m, "date"),
	}
	if page := group(chineseMetadataPattern, m, "page"); page != "" {
		meta.Page = "page " + page
	}
	return meta, true
}

// - Your Highlight on Page 42 | Location 123-140 | Added on Monday, 1 January 2024
// - Your Bookmark at location 346 | Added on Saturday, 26 March 2016 15:46:21
// - Your Highlight on Unnumbered Page | Loc. 12 | Added on ...
var englishMetadataPattern = regexp.MustCompile(
	`(?i)^- (?:Your )?(?P<type>[\p{L}\p{N}_]+)` +
		`(?: (?:on )?(?P<page>Unnumbered Page|Page .*) \|)?` +
		`(?: This Article)?` +
		` (?:on |at )?(?:Location|Loc\.) (?P<location>.*)` +
		` \| Added on (?P<date>.+)$`)

// EnglishGrammar matches metadata lines of English exports. The location
// is mandatory; page-only lines are rejected.
type EnglishGrammar struct{}

func (EnglishGrammar) Name() string {
	return "english"
}

func (EnglishGrammar) Match(line string) (Metadata, bool) {
	m := englishMetadataPattern.FindStringSubmatch(line)
	if m == nil {
		return Metadata{}, false
	}

	return Metadata{
		Type:     ClippingType(group(englishMetadataPattern, m, "type")),
		Page:     group(englishMetadataPattern, m, "page"),
		Location: group(englishMetadataPattern, m, "location"),
		Date:     group(englishMetadataPattern, m, "date"),
	}, true
}

func group(re *regexp.Regexp, match []string, name string) string {
	return match[re.SubexpIndex(name)]
}
