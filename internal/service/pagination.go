package service

const defaultPageSize = 20

// normalizePage clamps paging input and returns the query offset.
// Pages are 1-indexed everywhere in this API.
func normalizePage(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}
