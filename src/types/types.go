package types

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Status ... verdict of one test case or of a whole judging run
type Status string

const (
	StatusAC  Status = "AC"
	StatusWA  Status = "WA"
	StatusTLE Status = "TLE"
	StatusRE  Status = "RE"
	StatusCE  Status = "CE"
)

// PriorityMap ... larger is worse. used by the worst-of verdict policy
var PriorityMap = map[Status]int{StatusAC: 0, StatusWA: 1, StatusTLE: 2, StatusRE: 3, StatusCE: 4}

// TestTier ... which test case sets a run selects
type TestTier string

const (
	TierLight TestTier = "light"
	TierHeavy TestTier = "heavy"
	TierAll   TestTier = "all"
)

func ParseTestTier(s string) (TestTier, error) {
	switch TestTier(s) {
	case TierLight, TierHeavy, TierAll:
		return TestTier(s), nil
	}
	return "", fmt.Errorf("unknown test tier %q (want light, heavy or all)", s)
}

type TestCase struct {
	Name   string `json:"name" toml:"name"`
	Input  string `json:"in" toml:"in"`
	Output string `json:"out" toml:"out"`
}

// Assignment ... one gradable problem. read-only once loaded
type Assignment struct {
	ID             string
	MaxTimeMs      int
	MaxMemoryKB    int
	RequiredFiles  mapset.Set[string]
	TestCodes      map[string]string
	Makefile       string
	CompileCommand string
	BinaryName     string
	LightTestCases []TestCase
	HeavyTestCases []TestCase
}

// Select returns the test cases of the tier, light cases first.
func (a *Assignment) Select(tier TestTier) []TestCase {
	testcases := make([]TestCase, 0, len(a.LightTestCases)+len(a.HeavyTestCases))
	if tier == TierLight || tier == TierAll {
		testcases = append(testcases, a.LightTestCases...)
	}
	if tier == TierHeavy || tier == TierAll {
		testcases = append(testcases, a.HeavyTestCases...)
	}
	return testcases
}

// MissingFiles returns the required files not covered by names, sorted.
func (a *Assignment) MissingFiles(names []string) []string {
	if a.RequiredFiles == nil {
		return nil
	}
	missing := a.RequiredFiles.Difference(mapset.NewSet(names...)).ToSlice()
	sort.Strings(missing)
	return missing
}
