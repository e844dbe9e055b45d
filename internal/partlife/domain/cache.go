package domain

import "fmt"

// SnapshotCacheKey builds the Redis key for a part-life snapshot.
func SnapshotCacheKey(companyID, partID uint) string {
	return fmt.Sprintf("partlife:snapshot:%d:%d", companyID, partID)
}
