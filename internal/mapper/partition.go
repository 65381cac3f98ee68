package mapper

import "sort"

// Partition groups records by chromosome in a single pass. Records keep
// their input order within each bucket.
func Partition[T any](records []T, chrom func(T) string) map[string][]T {
	buckets := make(map[string][]T)
	for _, r := range records {
		c := chrom(r)
		buckets[c] = append(buckets[c], r)
	}
	return buckets
}

// Chromosomes returns the bucket names in sorted order.
func Chromosomes[T any](buckets map[string][]T) []string {
	chroms := make([]string, 0, len(buckets))
	for c := range buckets {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}
