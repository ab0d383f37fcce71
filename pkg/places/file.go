package places

import (
	"bytes"
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hubmap/pkg/errors"
)

type fileDoc struct {
	Place []Place `toml:"place"`
}

// File is a Source reading [[place]] tables from a TOML file.
type File string

func (f File) Places(context.Context) ([]Place, error) { return LoadFile(string(f)) }

// LoadFile reads places from a TOML file.
func LoadFile(path string) ([]Place, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "places file %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML place tables. Unknown keys are rejected.
func Parse(data []byte) ([]Place, error) {
	var doc fileDoc
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse places")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown places key %q", undec[0].String())
	}
	return doc.Place, nil
}

// Encode writes places in the same format LoadFile reads.
func Encode(ps []Place) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fileDoc{Place: ps}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
