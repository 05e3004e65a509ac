package reconcile

import "math"

// Summarize derives aggregate statistics from an outcome. sourceCount and
// targetCount are the record counts known for the job; when either is nil or
// zero the match percentage is 0.
func Summarize(sourceCount, targetCount *int, o *Outcome) Summary {
	s := Summary{
		TotalSourceRecords: sourceCount,
		TotalTargetRecords: targetCount,
	}
	if o != nil {
		s.MatchedRecords = len(o.Matched)
		s.UnmatchedSourceRecords = len(o.UnmatchedSource)
		s.UnmatchedTargetRecords = len(o.UnmatchedTarget)
	}

	if sourceCount == nil || targetCount == nil || *sourceCount == 0 || *targetCount == 0 {
		return s
	}
	total := max(*sourceCount, *targetCount)
	s.MatchPercentage = math.Round(float64(s.MatchedRecords)/float64(total)*100*100) / 100
	return s
}
