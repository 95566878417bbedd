package api

import (
	"fmt"
	"html/template"
	"path/filepath"
)

// LoadTemplates parses every layout, page and partial under dir.
// Pages define themselves by path, e.g. {{define "pages/index.html"}}.
func LoadTemplates(dir string) (*template.Template, error) {
	funcs := template.FuncMap{
		// dict builds a map from alternating key/value arguments
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				key, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[key] = kv[i+1]
			}
			return m, nil
		},
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		filepath.Join(dir, "layouts", "*.html"),
		filepath.Join(dir, "pages", "*.html"),
		filepath.Join(dir, "partials", "*.html"),
	}
	for _, p := range patterns {
		if matches, _ := filepath.Glob(p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseGlob(p); err != nil {
			return nil, err
		}
	}

	if t.Lookup("pages/index.html") == nil {
		return nil, fmt.Errorf("no pages/index.html template under %s", dir)
	}
	return t, nil
}
