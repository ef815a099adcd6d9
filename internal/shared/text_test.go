package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"  Chop the onions ":                     "Chop the onions",
		"<b>Bold</b> move":                       "Bold move",
		"Mix <script>alert(1)</script>well":      "Mix well",
		"<p>Heat oil</p>\n<p>Add garlic</p>":     "Heat oil Add garlic",
		"Salt & pepper":                          "Salt & pepper",
		"Use < 2 cups":                           "Use < 2 cups",
	}
	for in, want := range cases {
		assert.Equal(t, want, PlainText(in), "input %q", in)
	}
}

func TestUnion(t *testing.T) {
	got := Union([]string{"tomato", "basil"}, []string{"garlic", "tomato", "olive oil"}, nil)
	assert.Equal(t, []string{"tomato", "basil", "garlic", "olive oil"}, got)

	assert.Empty(t, Union())
}
