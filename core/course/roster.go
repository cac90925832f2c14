package course

import "github.com/trezcool/dynamiclms/core"

// SearchRoster keeps the students whose name, email or student ID contains query, ignoring case.
// An empty query keeps everyone.
func SearchRoster(students []Student, query string) []Student {
	query = core.CleanString(query)
	if query == "" {
		return students
	}
	found := make([]Student, 0, len(students))
	for _, s := range students {
		if core.ContainsFold(s.Name, query) || core.ContainsFold(s.Email, query) || core.ContainsFold(s.StudentID, query) {
			found = append(found, s)
		}
	}
	return found
}
