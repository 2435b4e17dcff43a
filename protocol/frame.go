package protocol

// MQ message type
type MsgType uint16

const (
	RouteReq  MsgType = 1
	RouteResp MsgType = 2
)

var TypeToString = map[MsgType]string{
	RouteReq:  "RouteReq",
	RouteResp: "RouteResp",
}

const (
	// 'TRMQ'
	Magic uint32 = 0x54524D51

	Version uint16 = 1

	// magic(4) + version(2) + type(2) + corr_id(8) + payload_len(4) + reserved(4)
	HeaderSize = 24
)

type MsgHdr struct {
	Magic uint32
	// Version of the frame layout
	Version uint16
	Type    MsgType
	// User defined ID to correlate requests between server and engine
	CorrID     uint64
	PayloadLen uint32
	Reserved   uint32
}

func (h *MsgHdr) Encode(e *PacketEncoder) {
	e.PutUint32(h.Magic)
	e.PutUint16(h.Version)
	e.PutUint16(uint16(h.Type))
	e.PutUint64(h.CorrID)
	e.PutUint32(h.PayloadLen)
	e.PutUint32(h.Reserved)
}

func (h *MsgHdr) Decode(d *PacketDecoder) error {
	var err error
	if h.Magic, err = d.Uint32(); err != nil {
		return err
	}
	if h.Version, err = d.Uint16(); err != nil {
		return err
	}
	var t uint16
	if t, err = d.Uint16(); err != nil {
		return err
	}
	h.Type = MsgType(t)
	if h.CorrID, err = d.Uint64(); err != nil {
		return err
	}
	if h.PayloadLen, err = d.Uint32(); err != nil {
		return err
	}
	h.Reserved, err = d.Uint32()
	return err
}

// Pack builds one bus frame. maxSize is the bus message size cap, the
// only reason Pack can fail.
func Pack(t MsgType, corrID uint64, payload []byte, maxSize int) ([]byte, error) {
	total := HeaderSize + len(payload)
	if total > maxSize {
		return nil, ErrFrameTooLarge
	}
	h := &MsgHdr{
		Magic:      Magic,
		Version:    Version,
		Type:       t,
		CorrID:     corrID,
		PayloadLen: uint32(len(payload)),
	}
	out := make([]byte, total)
	e := NewEncoder(out)
	h.Encode(e)
	e.PutRawBytes(payload)
	return out, nil
}

// Unpack validates and splits one bus frame. The bus delivers whole
// messages, so the strict equal-length check catches truncation or
// concatenation. Never returns a partial parse.
func Unpack(b []byte) (*MsgHdr, []byte, error) {
	if len(b) < HeaderSize {
		return nil, nil, ErrShortFrame
	}
	h := new(MsgHdr)
	if err := h.Decode(NewDecoder(b)); err != nil {
		return nil, nil, err
	}
	if h.Magic != Magic {
		return nil, nil, ErrBadMagic
	}
	if h.Version != Version {
		return nil, nil, ErrBadVersion
	}
	if HeaderSize+int(h.PayloadLen) != len(b) {
		return nil, nil, ErrLengthMismatch
	}
	return h, b[HeaderSize:], nil
}
