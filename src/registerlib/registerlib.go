package registerlib

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
	"github.com/dsa-sandbox/sandbox-judge/src/util"
)

// Settings ... settings.json / settings.toml of an assignment directory
type Settings struct {
	ID             string   `json:"id" toml:"id"`
	MaxTime        int      `json:"max_time" toml:"max_time"`     // ms
	MaxMemory      int      `json:"max_memory" toml:"max_memory"` // KB
	RequiredFiles  []string `json:"required_files" toml:"required_files"`
	TestCodes      []string `json:"test_codes" toml:"test_codes"`
	Makefile       string   `json:"makefile" toml:"makefile"`
	CompileCommand string   `json:"compile_command" toml:"compile_command"`
	BinaryFile     string   `json:"binary_file" toml:"binary_file"`
	LightTestCases []string `json:"light_test_cases" toml:"light_test_cases"`
	HeavyTestCases []string `json:"heavy_test_cases" toml:"heavy_test_cases"`
}

// LoadSettings reads settings.json, or settings.toml when there is no JSON file.
func LoadSettings(dir string) (*Settings, error) {
	var settings Settings

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, errors.Wrap(err, "failed to parse settings.json")
		}
	case os.IsNotExist(err):
		data, err = os.ReadFile(filepath.Join(dir, "settings.toml"))
		if err != nil {
			return nil, errors.Wrapf(err, "no settings.json or settings.toml in %s", dir)
		}
		if err := toml.Unmarshal(data, &settings); err != nil {
			return nil, errors.Wrap(err, "failed to parse settings.toml")
		}
	default:
		return nil, errors.Wrap(err, "failed to read settings.json")
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if s.ID == "" {
		return errors.New("id must not be empty")
	}
	if s.MaxTime <= 0 || s.MaxMemory <= 0 {
		return errors.Errorf("max_time and max_memory must be positive, got %d ms / %d KB", s.MaxTime, s.MaxMemory)
	}
	if !util.ValidationCheck(s.BinaryFile) {
		return errors.Errorf("invalid binary_file %q", s.BinaryFile)
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, name := range append(append([]string{}, s.LightTestCases...), s.HeavyTestCases...) {
		if !util.ValidationCheck(name) {
			return errors.Errorf("invalid test case name %q", name)
		}
		if !seen.Add(name) {
			return errors.Errorf("duplicate test case name %q", name)
		}
	}
	return nil
}

// Load builds the assignment record from an assignment directory.
func Load(dir string) (*types.Assignment, error) {
	settings, err := LoadSettings(dir)
	if err != nil {
		return nil, err
	}

	assignment := &types.Assignment{
		ID:             settings.ID,
		MaxTimeMs:      settings.MaxTime,
		MaxMemoryKB:    settings.MaxMemory,
		RequiredFiles:  mapset.NewSet(settings.RequiredFiles...),
		TestCodes:      make(map[string]string, len(settings.TestCodes)),
		CompileCommand: settings.CompileCommand,
		BinaryName:     settings.BinaryFile,
	}

	for _, name := range settings.TestCodes {
		content, err := readFile(dir, name)
		if err != nil {
			return nil, err
		}
		assignment.TestCodes[name] = content
	}

	if assignment.Makefile, err = readFile(dir, settings.Makefile); err != nil {
		return nil, err
	}
	if assignment.LightTestCases, err = loadTestCases(dir, settings.LightTestCases); err != nil {
		return nil, err
	}
	if assignment.HeavyTestCases, err = loadTestCases(dir, settings.HeavyTestCases); err != nil {
		return nil, err
	}
	return assignment, nil
}

func loadTestCases(dir string, names []string) ([]types.TestCase, error) {
	testcases := make([]types.TestCase, 0, len(names))
	for _, name := range names {
		input, err := readData(dir, name+".in")
		if err != nil {
			return nil, err
		}
		output, err := readData(dir, name+".out")
		if err != nil {
			return nil, err
		}
		testcases = append(testcases, types.TestCase{Name: name, Input: input, Output: output})
	}
	return testcases, nil
}

func readFile(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", name)
	}
	return string(b), nil
}

// readData reads name, falling back to name.zst.
func readData(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return readFile(dir, name)
	}

	fp, err := os.Open(path + ".zst")
	if err != nil {
		return "", errors.Errorf("neither %s nor %s.zst exists", name, name)
	}
	defer fp.Close()

	d, err := zstd.NewReader(fp)
	if err != nil {
		return "", errors.Wrap(err, "failed to create zstd reader")
	}
	defer d.Close()

	b, err := io.ReadAll(d)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decompress %s.zst", name)
	}
	return string(b), nil
}
