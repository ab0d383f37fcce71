// Package places loads the named locations that become map points.
//
// A [Source] yields [Place] records in registry order; the first place is the
// hub. Sources:
//
//   - [Builtin]: the default hub list compiled into the binary
//   - [File]: a TOML file with [[place]] tables
//   - [Mongo]: a MongoDB collection
//
// [Cached] stores the result of a slow source (Mongo) in a [cache.Cache].
//
// A places file looks like:
//
//	[[place]]
//	name = "Dubai"
//	lat = 25.2048
//	lng = 55.2708
//	color = "#e63946"
//	highlighted = true
//	country = "AE"
//
// Country codes are ISO 3166 and are validated; the country name is appended
// to the point's display label.
package places
