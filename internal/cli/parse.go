package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xolan/tally/internal/model"
)

// ParseID parses a positive numeric id. what names the id in the error.
func ParseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(fmt.Sprintf("invalid %s id '%s': must be a positive number", what, arg))
	}
	return id, nil
}

// projectPattern matches @project syntax (e.g., "@thesis", "@my-project").
var projectPattern = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)

var spaces = regexp.MustCompile(`\s+`)

// SplitProjectRef extracts an @project reference from a title. The last
// reference wins; all of them are removed from the returned title.
// Example: "write intro @thesis" -> ("write intro", "thesis")
func SplitProjectRef(input string) (title, project string) {
	matches := projectPattern.FindAllStringSubmatch(input, -1)
	if len(matches) > 0 {
		project = matches[len(matches)-1][1]
	}
	title = projectPattern.ReplaceAllString(input, "")
	title = spaces.ReplaceAllString(strings.TrimSpace(title), " ")
	return title, project
}

// FindProject returns the project called name, ignoring case.
func FindProject(projects []*model.Project, name string) (*model.Project, bool) {
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}
