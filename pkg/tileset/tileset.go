// Package tileset serves HiGlass tilesets over the HiGlass server API.
//
// A Tileset reports its metadata through Info and renders tiles through
// Tiles. Registered tilesets are exposed under MountPath:
//
//	GET tileset_info/?d=<uid>&d=<uid>   metadata keyed by uid
//	GET tiles/?d=<uid>.<z>.<x>.<y>       tile data keyed by tile id
//	GET chrom-sizes/?id=<uid>            TSV of chromosome sizes
package tileset

import (
	"reflect"
	"strconv"

	"github.com/google/uuid"
)

// MountPath is where the tileset API lives relative to the server root.
const MountPath = "/tilesets/api/v1/"

// Tile is a single rendered tile.
type Tile struct {
	ID    string
	Value any
}

// ChromSize is one row of a chromosome sizes table. Info may report
// "chromsizes" as []ChromSize or as a list of [name, size] pairs.
type ChromSize struct {
	Name string
	Size int64
}

// Tileset is implemented by anything HiGlass can fetch tiles from.
type Tileset interface {
	Info() (map[string]any, error)
	Tiles(ids []string) ([]Tile, error)
}

// Resource binds a Tileset to the uid clients address it by.
type Resource struct {
	UID     string
	Tileset Tileset
}

// NewResource wraps ts. When uid is empty the tileset's identity is used, so
// registering the same tileset value twice yields the same uid.
func NewResource(ts Tileset, uid string) *Resource {
	if uid == "" {
		uid = identity(ts)
	}
	return &Resource{UID: uid, Tileset: ts}
}

func identity(ts Tileset) string {
	v := reflect.ValueOf(ts)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if !v.IsNil() {
			return strconv.FormatUint(uint64(v.Pointer()), 10)
		}
	}
	// Value types have no stable identity.
	return uuid.NewString()
}
