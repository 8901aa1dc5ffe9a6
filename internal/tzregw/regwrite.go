// Package tzregw defines the RegisterWrite input model: the timed log of
// TIA audio-register writes that event capture consumes. Tick-accurate
// synth playback that produces this log is an external collaborator,
// out of scope here.
package tzregw

// RowIndex locates a write within the tracker that produced it. Event
// capture reads Subsong to select which subsong a write belongs to; Ord and
// Row are not read by the compressor.
type RowIndex struct {
	Subsong int `json:"subsong"`
	Ord     int `json:"ord"`
	Row     int `json:"row"`
}

// RegisterWrite is one timed write to a TIA register. This is also the
// CLI's input wire format: a register-write log is a JSON array of these.
type RegisterWrite struct {
	WriteIndex  uint32   `json:"writeIndex"`
	SystemIndex uint8    `json:"systemIndex"`
	Addr        uint16   `json:"addr"`
	Val         uint8    `json:"val"`
	Hz          float32  `json:"hz"`
	Seconds     uint32   `json:"seconds"`
	Ticks       uint32   `json:"ticks"`
	Row         RowIndex `json:"row"`
}

// ChannelAddressMap names the three registers (control, frequency, volume)
// that make up one TIA audio channel's state.
type ChannelAddressMap struct {
	Control   uint16
	Frequency uint16
	Volume    uint16
}

// Default channel address maps.
var (
	Channel0AddressMap = ChannelAddressMap{Control: 0x15, Frequency: 0x17, Volume: 0x19}
	Channel1AddressMap = ChannelAddressMap{Control: 0x16, Frequency: 0x18, Volume: 0x1A}
)

// TicksPerSecond is the fixed clock the decoder's frame counter runs at.
const TicksPerSecond = 31440

// AddressMapFor returns the configured address set for channel (0 or 1).
func AddressMapFor(channel int, ch0, ch1 ChannelAddressMap) ChannelAddressMap {
	if channel == 0 {
		return ch0
	}
	return ch1
}
