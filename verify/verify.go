// Challenge proof verification: players photograph a real-world eco action
// and the photo is checked against an image labeler's output. The decision
// is entirely caller-side keyword matching; the labeler only supplies
// labels.
package verify

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/lunavega/ecogame/structs"
)

// Challenges is the proof catalog. Keywords accept a photo, Forbidden veto
// it even when a keyword matched.
var Challenges = []structs.Challenge{
	{
		ID: "plant-sapling", Title: "Plant a Sapling", Points: 60, Icon: "🌳",
		Desc:      "Plant a tree in your garden or a community area.",
		Keywords:  []string{"tree", "sapling", "seedling", "plant", "soil", "garden"},
		Forbidden: []string{"artificial", "plastic"},
	},
	{
		ID: "waste-free-day", Title: "Waste-Free Wednesday", Points: 60, Icon: "♻️",
		Desc:      "Go a day without single-use plastics.",
		Keywords:  []string{"reusable", "bottle", "bag", "container", "cloth"},
		Forbidden: []string{"plastic", "styrofoam"},
	},
	{
		ID: "mini-composter", Title: "Build a Mini Composter", Points: 60, Icon: "🌱",
		Desc:      "Create a small compost bin for your kitchen scraps.",
		Keywords:  []string{"compost", "bin", "soil", "scraps", "food waste"},
		Forbidden: []string{"landfill"},
	},
}

// Find returns the catalog entry for id.
func Find(id string) (structs.Challenge, bool) {
	for _, c := range Challenges {
		if c.ID == id {
			return c, true
		}
	}
	return structs.Challenge{}, false
}

// Evaluate decides a challenge from the labeler's output: ok iff at least
// one keyword matches some label and no forbidden word matches any label.
// An empty label list is indeterminate and fails with its own reason.
func Evaluate(ch structs.Challenge, labels []structs.LabelScore) structs.VerifyResult {
	res := structs.VerifyResult{Challenge: ch.ID}

	if len(labels) == 0 {
		res.Reason = "no labels"
		return res
	}

	for _, l := range labels {
		for _, bad := range ch.Forbidden {
			if wordMatch(l.Label, bad) {
				res.Reason = "forbidden content: " + bad
				return res
			}
		}
	}

	for _, l := range labels {
		for _, kw := range ch.Keywords {
			if wordMatch(l.Label, kw) {
				res.OK = true
				res.Points = ch.Points
				res.Matched = kw
				return res
			}
		}
	}

	res.Reason = "no matching label"
	return res
}

// wordMatch reports whether the keyword appears in the label. Plain
// normalized containment first, then a levenshtein distance of 1 per word
// for typo-level variants ("windmil", "sappling"). Short words stay exact
// so "bin"/"bun" never collide.
func wordMatch(label, keyword string) bool {
	label = normalize(label)
	keyword = normalize(keyword)
	if label == "" || keyword == "" {
		return false
	}
	if strings.Contains(label, keyword) {
		return true
	}
	if len(keyword) < 4 {
		return false
	}
	collapsed := strings.ReplaceAll(label, " ", "")
	if strings.Contains(collapsed, strings.ReplaceAll(keyword, " ", "")) {
		return true
	}
	for _, word := range strings.Fields(label) {
		if len(word) >= 4 && levenshtein.ComputeDistance(word, keyword) <= 1 {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
