package grid

type geometryCache interface {
	// has checks whether a geometry for the given height bucket exists.
	has(bucket int) bool

	// get returns the geometry of the given height bucket or nil when there is none.
	get(bucket int) *Geometry

	// getOrInsert returns the geometry of the given bucket. It calls the build function and stores its result when the
	// bucket has not been cached yet. The boolean is true when the returned geometry is new in the cache.
	getOrInsert(bucket int, build func() *Geometry) (*Geometry, bool)

	// len returns the number of cached buckets.
	len() int

	// buckets returns all cached height buckets in no particular order.
	buckets() []int

	// clear removes all entries. The cache stays usable afterward.
	clear()
}

// bucketGeometryCache holds exactly one geometry per height bucket. Entries are never evicted, the number of buckets is
// bounded by the distinct heights of a map. It has no locking, grids are single-threaded.
type bucketGeometryCache struct {
	geometries map[int]*Geometry
}

func newBucketGeometryCache() *bucketGeometryCache {
	return &bucketGeometryCache{
		geometries: map[int]*Geometry{},
	}
}

func (c *bucketGeometryCache) has(bucket int) bool {
	_, ok := c.geometries[bucket]
	return ok
}

func (c *bucketGeometryCache) get(bucket int) *Geometry {
	return c.geometries[bucket]
}

func (c *bucketGeometryCache) getOrInsert(bucket int, build func() *Geometry) (*Geometry, bool) {
	if geometry, ok := c.geometries[bucket]; ok {
		return geometry, false
	}

	geometry := build()
	c.geometries[bucket] = geometry
	return geometry, true
}

func (c *bucketGeometryCache) len() int {
	return len(c.geometries)
}

func (c *bucketGeometryCache) buckets() []int {
	buckets := make([]int, 0, len(c.geometries))
	for bucket := range c.geometries {
		buckets = append(buckets, bucket)
	}
	return buckets
}

func (c *bucketGeometryCache) clear() {
	c.geometries = map[int]*Geometry{}
}
