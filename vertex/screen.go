package vertex

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrAssetTooLarge = errors.New("asset does not fit in display memory")
	ErrEmptyAsset    = errors.New("empty asset payload")
)

// UploadScreen pushes an asset to the display and switches to it.
//
// The session always starts from a fresh directory read: bucket
// records reflect whatever any process did to the device since the
// last upload. A free bucket is picked (bucket 0 is recycled when all
// sixteen are taken), memory is planned around the occupied regions
// and the payload is streamed in bulk reports. When the planner finds
// no room the whole directory is wiped once and planning restarts on
// the empty memory.
func (c *Controller) UploadScreen(asset Asset) error {
	if len(asset.Data) == 0 {
		return ErrEmptyAsset
	}
	if len(asset.Data) > MaxAssetLength {
		return ErrAssetTooLarge
	}
	if asset.Kind == AssetAnimated && len(asset.Data) > maxAnimatedLength {
		return ErrAssetTooLarge
	}
	packets := PacketCount(len(asset.Data))

	if err := c.handshake(); err != nil {
		return err
	}

	dir, err := c.ReadDirectory()
	if err != nil {
		return err
	}
	target := chooseTarget(dir)

	placement, ok := PlanPlacement(dir, target, packets)
	if !ok {
		if c.log != nil {
			c.log.Infof("Display memory exhausted, wiping the %d buckets", BucketCount)
		}
		if err := c.ResetDisplay(); err != nil {
			return err
		}

		if dir, err = c.ReadDirectory(); err != nil {
			return err
		}
		target = chooseTarget(dir)

		if placement, ok = PlanPlacement(dir, target, packets); !ok {
			return ErrAssetTooLarge
		}
	}

	index, err := c.prepareBucket(dir, target)
	if err != nil {
		return err
	}
	if index != target && c.log != nil {
		c.log.Warnf("Bucket %d is busy, writing bucket %d instead", target, index)
	}
	if c.log != nil {
		c.log.Infof("Writing %s asset to bucket %d: %s of %d units at offset %d",
			asset.Kind, index, placement.Kind, packets, placement.Offset)
	}

	if err := c.setupBucket(index, placement.Offset, packets); err != nil {
		return err
	}
	if err := c.transfer(index, asset); err != nil {
		return err
	}

	return c.DisplayBucket(index)
}

// chooseTarget picks the bucket an upload writes through: the lowest
// free one, or bucket 0 when the directory is full.
func chooseTarget(dir *Directory) uint8 {
	if target, ok := dir.FirstFree(); ok {
		return target
	}

	return 0
}

// handshake wakes the upload path. Responses carry nothing useful,
// they only prove the firmware is listening.
func (c *Controller) handshake() error {
	if _, err := c.Run(CommandPrepareUpload); err != nil {
		return fmt.Errorf("prepare_upload: %w", err)
	}
	if _, err := c.Run(CommandStatus); err != nil {
		return fmt.Errorf("prepare_upload: %w", err)
	}

	return nil
}

// setupBucket writes the allocation record before the data lands.
func (c *Controller) setupBucket(index uint8, offset, packets uint16) error {
	response, err := c.Run(CommandSetupBucket,
		index,
		index+1,
		byte(offset), byte(offset>>8),
		byte(packets), byte(packets>>8),
		0x01)
	if err != nil {
		return fmt.Errorf("setup_bucket %d: %w", index, err)
	}

	return c.checkAck("setup_bucket", response)
}

// transfer streams the asset: one header report then the payload in
// 512-byte slices, closed by the end-of-transfer command.
func (c *Controller) transfer(index uint8, asset Asset) error {
	if _, err := c.Run(CommandBeginTransfer, index); err != nil {
		return fmt.Errorf("begin_transfer %d: %w", index, err)
	}

	if err := c.bulkWrite(bulkHeader(asset)); err != nil {
		return err
	}

	data := asset.Data
	for len(data) > 0 {
		n := min(len(data), bulkChunkLength)
		if err := c.bulkWrite(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}

	if _, err := c.Run(CommandEndTransfer); err != nil {
		return fmt.Errorf("end_transfer: %w", err)
	}

	return nil
}

// bulkHeader builds the first bulk report: the preamble followed by
// the seven byte kind header.
func bulkHeader(asset Asset) []byte {
	header := make([]byte, 0, len(bulkPreamble)+len(staticHeader))
	header = append(header, bulkPreamble...)
	if asset.Kind == AssetAnimated {
		length := len(asset.Data)
		return append(header, byte(AssetAnimated), 0x00, 0x00, 0x00,
			byte(length), byte(length>>8), byte(length>>16))
	}

	return append(header, staticHeader...)
}

// DisplayBucket shows the asset stored in a bucket.
func (c *Controller) DisplayBucket(index uint8) error {
	response, err := c.Run(CommandSwitchDisplay, displayModeAsset, index)
	if err != nil {
		return fmt.Errorf("switch_display: %w", err)
	}

	return c.checkAck("switch_display", response)
}

// DisplayBuiltin shows the firmware liquid temperature dial.
func (c *Controller) DisplayBuiltin() error {
	response, err := c.Run(CommandSwitchDisplay, displayModeBuiltin, 0x00)
	if err != nil {
		return fmt.Errorf("switch_display: %w", err)
	}

	return c.checkAck("switch_display", response)
}

// ResetDisplay switches the screen to its builtin mode and releases
// all sixteen buckets, leaving the directory empty.
func (c *Controller) ResetDisplay() error {
	if err := c.DisplayBuiltin(); err != nil {
		return err
	}

	for index := uint8(0); index < BucketCount; index++ {
		if _, err := c.deleteBucket(index); err != nil {
			return err
		}
	}

	return nil
}

// SetBrightness dims or brightens the display backlight.
func (c *Controller) SetBrightness(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidBrightness
	}

	response, err := c.Run(CommandSetBrightness, 0x01, byte(percent))
	if err != nil {
		return fmt.Errorf("set_brightness: %w", err)
	}

	return c.checkAck("set_brightness", response)
}

// DetectAssetKind sniffs a payload signature. GIF data plays as an
// animation, anything else is pushed as a static frame.
func DetectAssetKind(data []byte) AssetKind {
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return AssetAnimated
	}

	return AssetStatic
}
