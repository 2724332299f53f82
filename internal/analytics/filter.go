package analytics

import (
	"pickpulse/pkg/contracts/domain"
)

// ApplyThresholds narrows a corpus to the records inside both
// thresholds: per-pick minutes at most the ceiling, then pick count at
// least the floor. The two cuts are sequential but commute; the net
// effect is an AND. Sightings pass through untouched, which is what
// lets the worker table show a sighted worker whose every record was
// cut.
//
// Record order is preserved. A max ceiling with a zero floor is the
// identity.
func ApplyThresholds(c domain.Corpus, th domain.Thresholds) domain.Corpus {
	kept := make([]domain.PickRecord, 0, len(c.Records))
	for _, rec := range c.Records {
		if rec.AvgMinutes > th.MinuteThreshold {
			continue
		}
		kept = append(kept, rec)
	}

	out := kept[:0:len(kept)]
	for _, rec := range kept {
		if rec.Picks < th.PickCountThreshold {
			continue
		}
		out = append(out, rec)
	}

	return domain.Corpus{
		Records:   out,
		Sightings: c.Sightings,
	}
}
