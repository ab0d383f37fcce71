// Package tiles builds the base layers drawn beneath the network.
//
// [Graticule] needs no network access. [Land] downloads a GeoJSON land
// dataset (Natural Earth 110m by default) through a [Fetcher], normally an
// [httputil.Client] backed by the file or Redis cache, and turns its
// polygons into filled rings:
//
//	client := httputil.NewClient(fileCache)
//	land, err := tiles.Land(ctx, client, "")
//
// [Build] resolves layer names from configuration ("graticule", "land").
//
// [httputil.Client]: github.com/matzehuels/hubmap/pkg/httputil.Client
package tiles
