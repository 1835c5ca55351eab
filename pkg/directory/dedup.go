package directory

// deduplicateFacilities resolves title collisions in place: for every title
// shared by two or more facilities, each one gets its region name appended,
// so the caller can tell them apart. Facilities with a unique title are
// left unmodified. Single pass, original relative order preserved.
func deduplicateFacilities(items []facility) {
	appendRegion := func(f *facility) {
		if f.Region != nil && f.Region.Title != "" {
			f.Title = f.Title + " " + f.Region.Title
		}
	}

	byTitle := make(map[string][]*facility)
	for i := range items {
		f := &items[i]
		title := f.Title
		group := byTitle[title]
		if len(group) == 0 {
			byTitle[title] = []*facility{f}
			continue
		}
		if len(group) == 1 {
			// Second sighting: the first entry is only now known to be
			// ambiguous.
			appendRegion(group[0])
		}
		appendRegion(f)
		byTitle[title] = append(group, f)
	}
}
