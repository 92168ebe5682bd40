package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	rosterv1alpha1 "github.com/perdasilva/dutyroster/api/v1alpha1"
)

// FileSource reads a YAML or JSON roster document, chosen by file
// extension.
type FileSource struct {
	path string
}

func NewFileSource(path string) RosterSource {
	return &FileSource{
		path: path,
	}
}

func (s FileSource) GetRoster(ctx context.Context) (*rosterv1alpha1.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".json":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported roster file %q: expected .yaml, .yml or .json", s.path)
	}
}

// DecodeYAML parses a YAML roster document. Unknown fields are errors.
func DecodeYAML(data []byte) (*rosterv1alpha1.Roster, error) {
	doc := &rosterv1alpha1.Roster{}
	if err := yaml.UnmarshalStrict(data, doc); err != nil {
		return nil, fmt.Errorf("decode yaml roster: %w", err)
	}
	return doc, nil
}

// DecodeJSON parses a JSON roster document.
func DecodeJSON(data []byte) (*rosterv1alpha1.Roster, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode json roster: invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("decode json roster: document is not an object")
	}

	doc := &rosterv1alpha1.Roster{
		Version: root.Get("version").String(),
		Name:    root.Get("name").String(),
		Year:    int(root.Get("year").Int()),
		Month:   int(root.Get("month").Int()),
		Slots:   int(root.Get("slots").Int()),
	}
	for _, site := range root.Get("crossSites").Array() {
		doc.CrossSites = append(doc.CrossSites, site.String())
	}

	var err error
	root.Get("employees").ForEach(func(_, value gjson.Result) bool {
		var flags rosterv1alpha1.Flags
		if flags, err = jsonFlags(value); err != nil {
			err = fmt.Errorf("employee %q: %w", value.Get("name").String(), err)
			return false
		}
		doc.Employees = append(doc.Employees, rosterv1alpha1.Employee{
			Name:  value.Get("name").String(),
			Site:  value.Get("site").String(),
			Flags: flags,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("decode json roster: %w", err)
	}

	root.Get("rules").ForEach(func(_, value gjson.Result) bool {
		var flags rosterv1alpha1.Flags
		if flags, err = jsonFlags(value.Get("set")); err != nil {
			err = fmt.Errorf("rule %q: %w", value.Get("selector").String(), err)
			return false
		}
		doc.Rules = append(doc.Rules, rosterv1alpha1.Rule{
			Selector: value.Get("selector").String(),
			Set:      flags,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("decode json roster: %w", err)
	}
	return doc, nil
}

func jsonFlags(value gjson.Result) (rosterv1alpha1.Flags, error) {
	var flags rosterv1alpha1.Flags
	for key, target := range map[string]**bool{
		"canWorkSunday":    &flags.CanWorkSunday,
		"canWorkAlone":     &flags.CanWorkAlone,
		"sundayRotation":   &flags.SundayRotation,
		"workedLastPeriod": &flags.WorkedLastPeriod,
	} {
		result := value.Get(key)
		if !result.Exists() {
			continue
		}
		if result.Type != gjson.True && result.Type != gjson.False {
			return flags, fmt.Errorf("%s must be a boolean, got %s", key, result.Raw)
		}
		*target = rosterv1alpha1.Bool(result.Bool())
	}
	return flags, nil
}
