package predictions

import "strconv"

func formatPercent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 2, 64) + "%"
}

// Verdict summarizes a job in one line for terminals and logs.
func Verdict(j *Job) string {
	if j == nil {
		return ""
	}
	switch j.Status {
	case StatusCompleted:
		if p := j.ProbabilityPercent(); p != "" {
			return j.ResultLabel() + " (" + p + ")"
		}
		return j.ResultLabel()
	case StatusFailed:
		if j.ErrorMessage != "" {
			return "Failed: " + j.ErrorMessage
		}
		return "Failed"
	default:
		return j.Status.Label()
	}
}
