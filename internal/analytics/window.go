package analytics

import (
	"pickpulse/pkg/contracts/domain"
)

// ApplyWindow narrows a corpus to the period slice the window selects.
// Unlike the threshold filter this cuts records AND sightings: a
// sighting outside the window would otherwise drag a zero-filled row
// into a month the worker never appeared in.
func ApplyWindow(c domain.Corpus, w domain.Window) domain.Corpus {
	if w.Kind == domain.WindowAll {
		return c
	}

	records := make([]domain.PickRecord, 0, len(c.Records))
	for _, rec := range c.Records {
		if w.Contains(rec.Date, rec.Weekday) {
			records = append(records, rec)
		}
	}

	sightings := make([]domain.WorkerSighting, 0, len(c.Sightings))
	for _, s := range c.Sightings {
		// Sightings come from parsed reports, so the date is never a
		// Sunday; guard anyway rather than trust the producer
		wd, ok := domain.WeekdayFromTime(s.Date)
		if !ok {
			continue
		}
		if w.Contains(s.Date, wd) {
			sightings = append(sightings, s)
		}
	}

	return domain.Corpus{
		Records:   records,
		Sightings: sightings,
	}
}
