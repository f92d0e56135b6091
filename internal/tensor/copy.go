package tensor

// CopyGroup issues a batch of tensor copies and tracks which backends still
// have non-blocking copies in flight, so the batch can be completed with a
// single Wait.
//
// A CopyGroup is not safe for concurrent use.
//
// Example:
//
//	var g tensor.CopyGroup
//	for name, src := range params {
//	    if err := g.Copy(dst[name].Raw(), src.Raw(), backend, true); err != nil {
//	        _ = g.Wait()
//	        return err
//	    }
//	}
//	return g.Wait() // every copy is visible after this
type CopyGroup struct {
	pending []AsyncCopier
	bytes   int64
}

// Copy copies src into dst. With nonBlocking set and a backend implementing
// AsyncCopier, the copy is queued and only guaranteed complete after Wait.
// Otherwise it completes before Copy returns.
func (g *CopyGroup) Copy(dst, src *RawTensor, backend any, nonBlocking bool) error {
	if err := dst.CheckCopy(src); err != nil {
		return err
	}

	if ac, ok := backend.(AsyncCopier); ok && nonBlocking {
		if err := ac.CopyAsync(dst, src); err != nil {
			return err
		}
		g.track(ac)
	} else if err := dst.CopyFrom(src); err != nil {
		return err
	}

	g.bytes += int64(src.ByteSize())
	return nil
}

func (g *CopyGroup) track(ac AsyncCopier) {
	for _, p := range g.pending {
		if p == ac {
			return
		}
	}
	g.pending = append(g.pending, ac)
}

// Wait blocks until every queued copy has completed.
func (g *CopyGroup) Wait() error {
	pending := g.pending
	g.pending = nil

	var first error
	for _, ac := range pending {
		if err := ac.Synchronize(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Bytes returns the number of bytes copied through the group.
func (g *CopyGroup) Bytes() int64 {
	return g.bytes
}
