package vertex

// USB identifiers of the supported coolers.
const (
	VendorID         = 0x3E2C
	ProductVertex240 = 0x1001
	ProductVertex280 = 0x1002
	ProductVertex360 = 0x1003
)

// SupportedDevices maps product identifiers to their marketing name.
var SupportedDevices = map[uint16]string{
	ProductVertex240: "Icetrail Vertex 240",
	ProductVertex280: "Icetrail Vertex 280",
	ProductVertex360: "Icetrail Vertex 360",
}

const (
	// BucketCount is the number of asset slots on the display flash.
	BucketCount = 16
	// MemoryTotal is the addressable display memory in 1 KiB units.
	// One unit holds two bulk reports.
	MemoryTotal = 24320
	// MaxAssetLength is the largest payload the display memory can
	// hold, in bytes.
	MaxAssetLength = MemoryTotal * 1024
	// maxAnimatedLength caps animated payloads to what the three byte
	// length field of their transfer header can carry.
	maxAnimatedLength = 1<<24 - 1

	bulkChunkLength = 512

	// Control replies repeat the command header in their first two
	// bytes and carry status or metadata from byte 14 on.
	replyHeaderLength = 14
	bucketMetaLength  = 6
	ackOK             = 0x01
)

var (
	CommandFirmwareInfo  = Command{0x10, 0x01}
	CommandSetColor      = Command{0x2a, 0x04}
	CommandSetBrightness = Command{0x30, 0x02}
	CommandQueryBucket   = Command{0x30, 0x04}
	CommandSetupBucket   = Command{0x32, 0x01}
	CommandDeleteBucket  = Command{0x32, 0x02}
	CommandBeginTransfer = Command{0x36, 0x01}
	CommandEndTransfer   = Command{0x36, 0x02}
	CommandPrepareUpload = Command{0x36, 0x03}
	CommandSwitchDisplay = Command{0x38, 0x01}
	CommandStatus        = Command{0x74, 0x01}
)

// Speed commands address their channel in the second header byte.
const commandSetSpeedFamily = 0x72

func commandSetSpeed(channel Channel) Command {
	return Command{commandSetSpeedFamily, byte(channel)}
}

// Display source selected by CommandSwitchDisplay.
const (
	displayModeBuiltin = 0x02 // firmware liquid temperature dial
	displayModeAsset   = 0x04
)

// bulkPreamble opens the first report of every bulk transfer.
var bulkPreamble = []byte{0x12, 0xfa, 0x01, 0xe8, 0xab, 0xcd, 0xef, 0x98, 0x76, 0x54, 0x32, 0x10}

// staticHeader is the fixed transfer header of still frames. Animated
// assets carry their payload length instead.
var staticHeader = []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x40, 0x96}
