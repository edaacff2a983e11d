package clinic

// insuranceOptions maps upstream insurance IDs to display names.
var insuranceOptions = map[int]string{
	1:  "RSSB",
	2:  "MMI",
	3:  "RAMA",
	4:  "Radiant",
	5:  "Sanlam",
	6:  "Britam",
	7:  "Eden Care",
	8:  "MUA",
	9:  "Old Mutual",
	10: "Prime Insurance",
}

// InsuranceNames resolves supported insurance IDs to display names,
// skipping IDs that are not in the catalog.
func InsuranceNames(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := insuranceOptions[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
