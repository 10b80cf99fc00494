package imsubs

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/MicronOxford/mrctools/internal/fsutil"
)

// EncodeSeparateChannels writes one single-channel Imsubs file per
// channel of the dataset into dir, named <basename>_CH_<c>.mrc, and
// returns the paths written, ordered by channel.  Channels are encoded
// concurrently, so the dataset's Plane method sees calls from multiple
// goroutines.
//
// If any channel fails, its partial output file is removed and the
// first error is returned; files for channels that completed are left
// in place.
func EncodeSeparateChannels(ds Dataset, dir, basename string, opts Options) ([]string, error) {
	nchan := ds.SizeC()
	if nchan > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyChannels, nchan)
	}

	paths := make([]string, nchan)
	var g errgroup.Group
	for c := 0; c < nchan; c++ {
		c := c
		path := filepath.Join(dir, fmt.Sprintf("%s_CH_%d.mrc", basename, c))
		paths[c] = path
		g.Go(func() error {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			err = EncodeWithOptions(&channelView{ds: ds, channel: c}, f, opts)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				if r := fsutil.Remove(path); !r.Ok() {
					return fmt.Errorf("%v (and removing partial file: %v)", err, r.Err)
				}
				return fmt.Errorf("channel %d: %w", c, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// channelView presents one channel of a dataset as a single-channel
// dataset.
type channelView struct {
	ds      Dataset
	channel int
}

func (v *channelView) SizeX() int { return v.ds.SizeX() }
func (v *channelView) SizeY() int { return v.ds.SizeY() }
func (v *channelView) SizeZ() int { return v.ds.SizeZ() }
func (v *channelView) SizeC() int { return 1 }
func (v *channelView) SizeT() int { return v.ds.SizeT() }
func (v *channelView) PixelType() PixelType { return v.ds.PixelType() }
func (v *channelView) PixelSizeX() float64 { return v.ds.PixelSizeX() }
func (v *channelView) PixelSizeY() float64 { return v.ds.PixelSizeY() }
func (v *channelView) PixelSizeZ() float64 { return v.ds.PixelSizeZ() }

func (v *channelView) Wavelengths() []int {
	waves := v.ds.Wavelengths()
	if v.channel < len(waves) {
		return []int{waves[v.channel]}
	}
	return []int{0}
}

func (v *channelView) Plane(c, t, z int) (*Plane, error) {
	return v.ds.Plane(v.channel, t, z)
}
