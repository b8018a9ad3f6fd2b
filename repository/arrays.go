package repository

import (
	"context"

	"github.com/emer/etable/etensor"
	"golang.org/x/sync/errgroup"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/codec"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/store"
	"github.com/neuronlabs/tvb/traits"
)

// saveArray writes the array field chunks and sets its handle.
func (r *Repository) saveArray(ctx context.Context, dt traits.Datatype, f *traits.Field) error {
	base := dt.TraitsBase()
	prefix := arrayPrefix(base.GID, f.StorageName())
	old, hasOld := base.Handle(f.StorageName())

	arr := f.Array(dt)
	if arr == nil {
		if !hasOld || old.Key == prefix {
			return nil
		}
		// the handle of the copied datatype points to other datatype's chunks
		loaded, err := r.readChunks(ctx, old, 0, old.Chunks)
		if err != nil {
			return err
		}
		arr = loaded
	}
	tensor := arr.(etensor.Tensor)

	shape := arrays.ShapeOf(tensor)
	h := &traits.ArrayHandle{
		Key:       prefix,
		Shape:     shape,
		ChunkRows: r.options.ChunkRows,
	}
	if _, ok := tensor.(*etensor.Int); ok {
		h.DType = traits.DTypeInt
	} else {
		h.DType = traits.DTypeFloat
	}
	rows := 0
	if len(shape) > 0 {
		rows = shape[0]
	}
	h.Chunks = (rows + h.ChunkRows - 1) / h.ChunkRows

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.options.Workers)
	for i := 0; i < h.Chunks; i++ {
		i := i
		g.Go(func() error {
			start := i * h.ChunkRows
			stop := start + h.ChunkRows
			if stop > rows {
				stop = rows
			}
			var (
				chunk etensor.Tensor
				err   error
			)
			switch t := tensor.(type) {
			case *etensor.Float64:
				chunk, err = arrays.Rows(t, start, stop)
			case *etensor.Int:
				chunk, err = arrays.RowsInt(t, start, stop)
			}
			if err != nil {
				return errors.Wrapf(err, class.StorageCodec, "slicing array: '%s' failed", f)
			}
			data, err := codec.Encode(chunk, r.options.Compression)
			if err != nil {
				return err
			}
			return r.store.Set(gctx, &store.Record{Key: chunkKey(prefix, i), Value: data})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// remove the stale chunks of the previous version
	if hasOld && old.Key == prefix {
		for i := h.Chunks; i < old.Chunks; i++ {
			if err := r.store.Delete(ctx, chunkKey(prefix, i)); err != nil && !store.IsNotFound(err) {
				return err
			}
		}
	}
	base.SetHandle(f.StorageName(), h)
	logger.Debug2f("Saved array: '%s' %v in %d chunks", f, shape, h.Chunks)
	return nil
}

// LoadArray loads the whole array 'field' of the datatype from the store.
func (r *Repository) LoadArray(ctx context.Context, dt traits.Datatype, field string) error {
	f, err := r.field(dt, field, traits.KindArray)
	if err != nil {
		return err
	}
	h, ok := dt.TraitsBase().Handle(f.StorageName())
	if !ok {
		return errors.NewDetf(class.StorageNotFound, "array: '%s' is not stored", f)
	}
	tensor, err := r.readChunks(ctx, h, 0, h.Chunks)
	if err != nil {
		return err
	}
	return f.Set(dt, tensor)
}

// LoadArrays loads all the stored arrays of the datatype that are not loaded yet.
func (r *Repository) LoadArrays(ctx context.Context, dt traits.Datatype) error {
	ts, err := r.registry.TypeOf(dt)
	if err != nil {
		return err
	}
	base := dt.TraitsBase()
	for _, f := range ts.Arrays() {
		if f.Array(dt) != nil {
			continue
		}
		if _, ok := base.Handle(f.StorageName()); !ok {
			continue
		}
		if err = r.LoadArray(ctx, dt, f.Name()); err != nil {
			return err
		}
	}
	return nil
}

// ReadRows reads the first axis rows [start, stop) of the array 'field'. If the array is loaded
// the rows are copied from memory, otherwise only the chunks overlapping the range are read.
// The returned tensor is *etensor.Float64 or *etensor.Int.
func (r *Repository) ReadRows(ctx context.Context, dt traits.Datatype, field string, start, stop int) (etensor.Tensor, error) {
	f, err := r.field(dt, field, traits.KindArray)
	if err != nil {
		return nil, err
	}
	if arr := f.Array(dt); arr != nil {
		switch t := arr.(type) {
		case *etensor.Float64:
			out, err := arrays.Rows(t, start, stop)
			if err != nil {
				return nil, errors.Wrap(err, class.StorageKey, "invalid rows range")
			}
			return out, nil
		case *etensor.Int:
			out, err := arrays.RowsInt(t, start, stop)
			if err != nil {
				return nil, errors.Wrap(err, class.StorageKey, "invalid rows range")
			}
			return out, nil
		}
	}

	h, ok := dt.TraitsBase().Handle(f.StorageName())
	if !ok {
		return nil, errors.NewDetf(class.StorageNotFound, "array: '%s' is not stored", f)
	}
	if start < 0 || stop > h.Rows() || start > stop {
		return nil, errors.NewDetf(class.StorageKey, "rows range: [%d, %d) out of bounds for %d rows", start, stop, h.Rows())
	}
	if start == stop {
		return emptyRows(h), nil
	}
	first, last := start/h.ChunkRows, (stop-1)/h.ChunkRows
	tensor, err := r.readChunks(ctx, h, first, last+1)
	if err != nil {
		return nil, err
	}
	offset := first * h.ChunkRows
	switch t := tensor.(type) {
	case *etensor.Float64:
		return arrays.Rows(t, start-offset, stop-offset)
	case *etensor.Int:
		return arrays.RowsInt(t, start-offset, stop-offset)
	}
	return nil, errors.NewDetf(class.StorageCodec, "unsupported tensor type: '%T'", tensor)
}

// readChunks reads and concatenates the chunks [from, to) of the array handle.
func (r *Repository) readChunks(ctx context.Context, h *traits.ArrayHandle, from, to int) (etensor.Tensor, error) {
	if from >= to {
		return emptyRows(h), nil
	}
	chunks := make([]etensor.Tensor, to-from)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.options.Workers)
	for i := from; i < to; i++ {
		i := i
		g.Go(func() error {
			rec, err := r.store.Get(gctx, chunkKey(h.Key, i))
			if err != nil {
				return err
			}
			chunk, err := codec.Decode(rec.Value)
			if err != nil {
				return err
			}
			chunks[i-from] = chunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch h.DType {
	case traits.DTypeInt:
		parts := make([]*etensor.Int, len(chunks))
		for i, c := range chunks {
			p, ok := c.(*etensor.Int)
			if !ok {
				return nil, errors.NewDetf(class.StorageCodec, "chunk: %d of array: '%s' is not an int array", from+i, h.Key)
			}
			parts[i] = p
		}
		out, err := arrays.ConcatInt(parts...)
		if err != nil {
			return nil, errors.Wrap(err, class.StorageCodec, "concatenating chunks failed")
		}
		return out, nil
	default:
		parts := make([]*etensor.Float64, len(chunks))
		for i, c := range chunks {
			p, ok := c.(*etensor.Float64)
			if !ok {
				return nil, errors.NewDetf(class.StorageCodec, "chunk: %d of array: '%s' is not a float array", from+i, h.Key)
			}
			parts[i] = p
		}
		out, err := arrays.ConcatFloat(parts...)
		if err != nil {
			return nil, errors.Wrap(err, class.StorageCodec, "concatenating chunks failed")
		}
		return out, nil
	}
}

func emptyRows(h *traits.ArrayHandle) etensor.Tensor {
	shape := append([]int{}, h.Shape...)
	if len(shape) > 0 {
		shape[0] = 0
	}
	if h.DType == traits.DTypeInt {
		return arrays.NewInt(shape)
	}
	return arrays.NewFloat(shape)
}
