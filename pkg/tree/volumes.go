package tree

import (
	"sync"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

type radiusLayerKey struct {
	bucket int
	layer  int
}

// ModelVolumes lazily computes and memoizes the keep-out regions per
// (radius bucket, layer): collision, avoidance, and the internal guide.
// It is safe for concurrent use; cached values are immutable once
// inserted and callers must not modify the returned polygons.
type ModelVolumes struct {
	params TreeParams
	border geom.Polygons

	// outlines holds the model outline per layer, captured once so
	// lookups are referentially transparent even if the storage
	// changes.
	outlines []geom.Polygons

	mu        sync.Mutex
	collision map[radiusLayerKey]geom.Polygons
	avoidance map[radiusLayerKey]geom.Polygons
	internal  map[radiusLayerKey]geom.Polygons
}

// NewModelVolumes captures the layer outlines and machine border of
// the given storage.
func NewModelVolumes(params TreeParams, storage *slicedata.SliceDataStorage) *ModelVolumes {
	layers := storage.LayerCount()
	outlines := make([]geom.Polygons, layers)
	for i := 0; i < layers; i++ {
		outlines[i] = storage.LayerOutlines(i)
	}
	return &ModelVolumes{
		params:    params,
		border:    MachineBorder(storage, params),
		outlines:  outlines,
		collision: make(map[radiusLayerKey]geom.Polygons),
		avoidance: make(map[radiusLayerKey]geom.Polygons),
		internal:  make(map[radiusLayerKey]geom.Polygons),
	}
}

// LayerCount returns the number of layers the volumes cover.
func (v *ModelVolumes) LayerCount() int {
	return len(v.outlines)
}

func (v *ModelVolumes) outline(layer int) geom.Polygons {
	if layer < 0 || layer >= len(v.outlines) {
		return nil
	}
	return v.outlines[layer]
}

func (v *ModelVolumes) cached(cache map[radiusLayerKey]geom.Polygons, key radiusLayerKey) (geom.Polygons, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	got, ok := cache[key]
	return got, ok
}

// insert publishes a computed value. The first writer wins so that
// concurrent duplicate computations still hand out one stable value.
func (v *ModelVolumes) insert(cache map[radiusLayerKey]geom.Polygons, key radiusLayerKey, value geom.Polygons) geom.Polygons {
	v.mu.Lock()
	defer v.mu.Unlock()
	if prior, ok := cache[key]; ok {
		return prior
	}
	cache[key] = value
	return value
}

// Collision returns the planar region where a branch of the given
// radius cannot sit on the given layer.
func (v *ModelVolumes) Collision(radius geom.Coord, layer int) geom.Polygons {
	return v.collisionBucket(v.params.RadiusBucket(radius), layer)
}

func (v *ModelVolumes) collisionBucket(bucket, layer int) geom.Polygons {
	key := radiusLayerKey{bucket, layer}
	if got, ok := v.cached(v.collision, key); ok {
		return got
	}
	area := v.outline(layer).Union(v.border)
	area = area.Offset(v.params.XYDistance + v.params.BucketRadius(bucket))
	return v.insert(v.collision, key, area)
}

// Avoidance returns the region a branch of the given radius must stay
// out of on the given layer to retain a route to the build plate.
func (v *ModelVolumes) Avoidance(radius geom.Coord, layer int) geom.Polygons {
	return v.avoidanceBucket(v.params.RadiusBucket(radius), layer)
}

// avoidanceBucket iterates upward from the lowest uncached layer
// instead of recursing, so tall prints cannot overflow the stack.
func (v *ModelVolumes) avoidanceBucket(bucket, layer int) geom.Polygons {
	key := radiusLayerKey{bucket, layer}
	if got, ok := v.cached(v.avoidance, key); ok {
		return got
	}
	prev, ok := v.cached(v.avoidance, radiusLayerKey{bucket, 0})
	if !ok {
		prev = v.insert(v.avoidance, radiusLayerKey{bucket, 0}, v.collisionBucket(bucket, 0))
	}
	for z := 1; z <= layer; z++ {
		zKey := radiusLayerKey{bucket, z}
		if got, ok := v.cached(v.avoidance, zKey); ok {
			prev = got
			continue
		}
		area := prev.Offset(-v.params.MaxMove).Smooth()
		area = area.Union(v.collisionBucket(bucket, z))
		prev = v.insert(v.avoidance, zKey, area)
	}
	return prev
}

// InternalModel returns the region inside the model but clear of the
// collision band, where a branch that cannot escape to the build plate
// must live.
func (v *ModelVolumes) InternalModel(radius geom.Coord, layer int) geom.Polygons {
	bucket := v.params.RadiusBucket(radius)
	key := radiusLayerKey{bucket, layer}
	if got, ok := v.cached(v.internal, key); ok {
		return got
	}
	area := v.avoidanceBucket(bucket, layer).Difference(v.collisionBucket(bucket, layer))
	return v.insert(v.internal, key, area)
}

// Precompute fills the collision and avoidance caches for every bucket
// up to maxBucket: collision in parallel per bucket, avoidance in
// parallel per bucket and sequential over layers. The progress
// callback, if any, is invoked as each bucket completes.
func (v *ModelVolumes) Precompute(maxBucket int, progress func(done, total int)) {
	total := 2 * (maxBucket + 1)
	var done int
	var mu sync.Mutex
	report := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		done++
		progress(done, total)
		mu.Unlock()
	}

	layers := v.LayerCount()
	var wg sync.WaitGroup
	for bucket := 0; bucket <= maxBucket; bucket++ {
		wg.Add(1)
		go func(bucket int) {
			defer wg.Done()
			for z := 0; z < layers; z++ {
				v.collisionBucket(bucket, z)
			}
			report()
		}(bucket)
	}
	wg.Wait()

	for bucket := 0; bucket <= maxBucket; bucket++ {
		wg.Add(1)
		go func(bucket int) {
			defer wg.Done()
			if layers > 0 {
				v.avoidanceBucket(bucket, layers-1)
			}
			report()
		}(bucket)
	}
	wg.Wait()
}
