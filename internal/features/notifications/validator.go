package notifications

import "github.com/xyz-asif/nexcrm/internal/pkg/pagination"

// ValidateNotificationListQuery clamps paging to the allowed range.
func ValidateNotificationListQuery(query *NotificationListQuery) *pagination.PaginationRequest {
	page := pagination.Normalize(query.Page, query.Limit)
	query.Page = page.Page
	query.Limit = page.Limit
	return page
}
