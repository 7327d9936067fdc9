package segment

import (
	"fmt"
	"strconv"
	"strings"
)

// Prompt is one heading-delimited section extracted for prompt use.
type Prompt struct {
	Heading       string
	ParentHeading string
	Level         int
	Content       string
	PromptNumber  int
	TotalPrompts  int
}

// PromptOptions configures prompt splitting.
type PromptOptions struct {
	SplitLevel           string // "h1".."h6"
	IncludeParentContext bool
	Template             string // optional, with {heading} {content} {parent} {level}
}

// SplitPrompts cuts markdown at the given heading level, one prompt per
// section. Returns nil when the document has no headings at that level.
func SplitPrompts(content string, opts PromptOptions) ([]Prompt, error) {
	level, err := parseLevel(opts.SplitLevel)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(content, "\n")

	parents := make(map[int]string) // heading level -> latest text
	var prompts []Prompt
	var current *Prompt
	var body []string

	closeCurrent := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		prompts = append(prompts, *current)
		current = nil
		body = nil
	}

	for _, line := range lines {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			if current != nil {
				body = append(body, line)
			}
			continue
		}

		hLevel := len(m[1])
		text := strings.TrimSpace(m[2])

		if hLevel < level {
			closeCurrent()
			parents[hLevel] = text
			continue
		}

		if hLevel == level {
			closeCurrent()
			p := Prompt{Heading: text, Level: level}
			if opts.IncludeParentContext {
				p.ParentHeading = parents[level-1]
			}
			current = &p
			continue
		}

		// Deeper heading: part of the current section body.
		if current != nil {
			body = append(body, line)
		}
	}
	closeCurrent()

	for i := range prompts {
		prompts[i].PromptNumber = i + 1
		prompts[i].TotalPrompts = len(prompts)
	}

	return prompts, nil
}

// Render applies the template to a prompt, or returns the raw content when
// no template is set.
func (p Prompt) Render(template string) string {
	if template == "" {
		return p.Content
	}
	r := strings.NewReplacer(
		"{heading}", p.Heading,
		"{content}", p.Content,
		"{parent}", p.ParentHeading,
		"{level}", strconv.Itoa(p.Level),
	)
	return r.Replace(template)
}

func parseLevel(s string) (int, error) {
	if len(s) == 2 && s[0] == 'h' && s[1] >= '1' && s[1] <= '6' {
		return int(s[1] - '0'), nil
	}
	return 0, fmt.Errorf("invalid heading level %q (expected h1..h6)", s)
}
