package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/texatlas/pkg/errors"
)

// LoadConfig reads build options from a TOML file. Keys are the toml tags of
// Options. Unknown keys are rejected so that typos do not pass silently.
//
//	inputs = ["sprites", "ui"]
//	atlas_name = "game"
//	sheet_size = 1024
//	output_dir = "build"
func LoadConfig(path string) (Options, error) {
	var opts Options
	if _, err := os.Stat(path); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidPath, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}
