// Package auditlog sorts and filters the backend's audit feed for display.
package auditlog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avelasquez/northwind-admin/internal/models"
)

// dateLayouts covers the timestamp shapes the backend has served.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortByDateDesc returns a copy of logs ordered newest first. Entries
// with unparseable dates sink to the end.
func SortByDateDesc(logs []models.DomainLog) []models.DomainLog {
	sorted := append([]models.DomainLog(nil), logs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseDate(sorted[i].CreatedDate).After(parseDate(sorted[j].CreatedDate))
	})
	return sorted
}

// DistinctUsers lists the user names present in the feed, sorted.
func DistinctUsers(logs []models.DomainLog) []string {
	seen := map[string]bool{}
	var users []string
	for _, l := range logs {
		if l.UserName != "" && !seen[l.UserName] {
			seen[l.UserName] = true
			users = append(users, l.UserName)
		}
	}
	sort.Strings(users)
	return users
}

// Filter narrows the feed to one user (empty selects all) and a free-text
// query matched against information, user, date and id.
func Filter(logs []models.DomainLog, user, query string) []models.DomainLog {
	query = strings.ToLower(strings.TrimSpace(query))

	var matched []models.DomainLog
	for _, l := range logs {
		if user != "" && l.UserName != user {
			continue
		}
		if query == "" {
			matched = append(matched, l)
			continue
		}

		haystack := strings.ToLower(strings.Join([]string{
			l.Information,
			l.UserName,
			l.CreatedDate,
			strconv.Itoa(l.ID),
		}, " "))
		if strings.Contains(haystack, query) {
			matched = append(matched, l)
		}
	}
	return matched
}
