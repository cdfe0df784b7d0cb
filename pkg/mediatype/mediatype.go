// Package mediatype maps file names and extensions to MIME types.
package mediatype

import (
	"mime"
	"path"
	"strings"
)

// Default is returned when the extension is unknown.
const Default = "application/octet-stream"

// builtin takes precedence over the system MIME tables so results do not
// depend on the host's /etc/mime.types.
var builtin = map[string]string{
	".txt":     "text/plain",
	".text":    "text/plain",
	".log":     "text/plain",
	".csv":     "text/csv",
	".tsv":     "text/tab-separated-values",
	".json":    "application/json",
	".geojson": "application/geo+json",
	".ndjson":  "application/x-ndjson",
	".html":    "text/html",
	".htm":     "text/html",
	".css":     "text/css",
	".js":      "text/javascript",
	".mjs":     "text/javascript",
	".xml":     "application/xml",
	".md":      "text/markdown",
	".yaml":    "application/yaml",
	".yml":     "application/yaml",
	".png":     "image/png",
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".gif":     "image/gif",
	".svg":     "image/svg+xml",
	".webp":    "image/webp",
	".avif":    "image/avif",
	".ico":     "image/x-icon",
	".tif":     "image/tiff",
	".tiff":    "image/tiff",
	".pdf":     "application/pdf",
	".zip":     "application/zip",
	".gz":      "application/gzip",
	".tar":     "application/x-tar",
	".wasm":    "application/wasm",
	".bin":     Default,
	".parquet": "application/vnd.apache.parquet",
	".arrow":   "application/vnd.apache.arrow.file",
	".feather": "application/vnd.apache.arrow.file",
	".mp4":     "video/mp4",
	".webm":    "video/webm",
	".wav":     "audio/wav",
	".mp3":     "audio/mpeg",
	".ogg":     "audio/ogg",
	// genomics formats served to track viewers
	".bed":    "text/plain",
	".vcf":    "text/plain",
	".fasta":  "text/plain",
	".fa":     "text/plain",
	".bam":    Default,
	".bai":    Default,
	".bw":     Default,
	".bigwig": Default,
	".cool":   Default,
	".mcool":  Default,
	".h5":     "application/x-hdf5",
	".hdf5":   "application/x-hdf5",
	".npy":    Default,
}

// Guess returns the MIME type for a path, file name or extension (".csv").
// Parameters such as charset are stripped. Unknown extensions yield Default.
func Guess(name string) string {
	ext := Extension(name)
	if ext == "" {
		return Default
	}
	if t, ok := builtin[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return Default
}

// Extension returns the lowercased extension of name including the dot, or
// an empty string when name has none.
func Extension(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	return strings.ToLower(path.Ext(name))
}
