package postgresql

import "github.com/google/uuid"

// isUUID reports whether id can be cast to a UUID column. Anything else would fail the
// query with 22P02, so callers treat it as a missing row instead.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// uuidsOnly drops ids that cannot match any row
func uuidsOnly(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			valid = append(valid, id)
		}
	}
	return valid
}
