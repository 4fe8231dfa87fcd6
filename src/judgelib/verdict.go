package judgelib

import "github.com/dsa-sandbox/sandbox-judge/src/types"

const (
	PolicyLast  = "last"
	PolicyWorst = "worst"
)

// Classify ... overall status of the tests. AC when every test passed or there were none.
// PolicyLast keeps the last non-AC status, PolicyWorst the one highest in types.PriorityMap
func Classify(policy string, detail []types.TestResult) types.Status {
	status := types.StatusAC
	for _, elem := range detail {
		if elem.Status == types.StatusAC {
			continue
		}
		if policy == PolicyWorst && types.PriorityMap[elem.Status] <= types.PriorityMap[status] {
			continue
		}
		status = elem.Status
	}
	return status
}
