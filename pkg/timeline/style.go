package timeline

import "strings"

// Style is a block's fill and outline color.
type Style struct {
	Background string
	Outline    string
}

type labStyle struct {
	lab   string
	style Style
}

// labStyles is matched in order; the first lab contained in the record's lab wins.
var labStyles = []labStyle{
	{"Oguri", Style{Background: "#5BCAF5", Outline: "#5bb7f5"}},
	{"Suga", Style{Background: "#CD212A", Outline: "#bf1f27"}},
	{"Yamada", Style{Background: "#FFB951", Outline: "#edac4c"}},
	{"Goda", Style{Background: "#0303EF", Outline: "#0404D6"}},
	{"Tsukuda", Style{Background: "#54D6A9", Outline: "#45B08B"}},
	{"Campbell", Style{Background: "#8E8EFF", Outline: "#8E8EFF"}},
	{"Kobayashi", Style{Background: "#0303EF", Outline: "#0404D6"}},
	{"Isobe", Style{Background: "#00AC00", Outline: "#009E00"}},
}

// DefaultStyle is the neutral gray for unknown labs.
var DefaultStyle = Style{Background: "#C0C0C0", Outline: "#C0C0C0"}

// StyleFor picks the color pair for a lab name.
func StyleFor(lab string) Style {
	for _, ls := range labStyles {
		if strings.Contains(lab, ls.lab) {
			return ls.style
		}
	}
	return DefaultStyle
}
