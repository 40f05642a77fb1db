package maven

import (
	_ "embed"
	"strings"
)

//go:embed mime.types
var mimeTypesFile string

// mediaTypes maps lowercase file extensions (without dot) to media types.
// Built once at startup from the embedded mime.types table, read-only after.
var mediaTypes = parseMimeTypes(mimeTypesFile)

// MediaTypeByPath resolves a media type from the final extension token of the
// last path segment. It returns "" when the path has no extension or the
// extension is unknown; the caller decides the fallback.
func MediaTypeByPath(path string) string {
	name := path[strings.LastIndex(path, "/")+1:]
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return mediaTypes[strings.ToLower(name[i+1:])]
}

// parseMimeTypes reads an Apache mime.types style table: one media type per
// line followed by its extensions, '#' starts a comment. The first mapping
// wins when an extension appears more than once.
func parseMimeTypes(data string) map[string]string {
	types := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, ext := range fields[1:] {
			ext = strings.ToLower(ext)
			if _, ok := types[ext]; !ok {
				types[ext] = fields[0]
			}
		}
	}
	return types
}
