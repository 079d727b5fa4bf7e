package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCircuitCodePacketRoundTrip(t *testing.T) {
	block := CircuitCode{
		Code:      123456,
		SessionID: uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		ID:        uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
	}
	pkt := NewCircuitCodePacket(block)
	if pkt.Header.Frequency != Low || pkt.Header.ID != CircuitCodeID || !pkt.Header.Reliable {
		t.Fatalf("unexpected header: %+v", pkt.Header)
	}

	out, err := FromBytes(pkt.ToBytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := out.Body.(*CircuitCode)
	if !ok {
		t.Fatalf("unexpected body %T", out.Body)
	}
	if *got != block {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, block)
	}
}

func TestCircuitCodeBodyLengthStrict(t *testing.T) {
	valid := (&CircuitCode{Code: 1}).Encode()
	if len(valid) != 36 {
		t.Fatalf("circuit code body must be 36 bytes, got %d", len(valid))
	}

	if _, err := DecodeCircuitCode(valid[:35]); !errors.Is(err, ErrBodyTooShort) {
		t.Fatalf("35 bytes: expected ErrBodyTooShort, got %v", err)
	}
	if _, err := DecodeCircuitCode(valid); err != nil {
		t.Fatalf("36 bytes: %v", err)
	}
	if _, err := DecodeCircuitCode(append(valid, 0)); !errors.Is(err, ErrBodyLength) {
		t.Fatalf("37 bytes: expected ErrBodyLength, got %v", err)
	}
}

func TestUnknownMessageTypeIsError(t *testing.T) {
	h := Header{ID: 9999, Frequency: Low}
	raw := append(h.Encode(), 1, 2, 3)
	if _, err := FromBytes(raw); !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
}

func TestZerocodedBodyExpansion(t *testing.T) {
	block := CircuitCode{Code: 7} // zero UUIDs give long zero runs
	pkt := NewCircuitCodePacket(block)
	pkt.Header.Zerocoded = true

	raw := pkt.ToBytes()
	plain := NewCircuitCodePacket(block).ToBytes()
	if len(raw) >= len(plain) {
		t.Fatalf("zerocoding did not shrink the body: %d vs %d", len(raw), len(plain))
	}

	out, err := FromBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := out.Body.(*CircuitCode)
	if *got != block {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, block)
	}
}

func TestLoginRequestPacketRoundTrip(t *testing.T) {
	req := LoginRequest{
		First:        "default",
		Last:         "user",
		Passwd:       "password",
		Start:        "home",
		Channel:      "benthic",
		AgreeToTOS:   true,
		ReadCritical: true,
		URL:          "http://127.0.0.1:9000",
	}
	out, err := FromBytes(NewLoginPacket(req).ToBytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := out.Body.(*LoginRequest)
	if !ok {
		t.Fatalf("unexpected body %T", out.Body)
	}
	if *got != req {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, req)
	}
}

func TestReencodeIsByteIdentical(t *testing.T) {
	pkt := NewCompleteAgentMovementPacket(CompleteAgentMovement{
		AgentID:     uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		SessionID:   uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		CircuitCode: 99,
	})
	pkt.Header.SequenceNumber = 12

	raw := pkt.ToBytes()
	out, err := FromBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(out.ToBytes(), raw) {
		t.Fatalf("re-encode differs from original bytes")
	}
}

func TestPacketAckRoundTrip(t *testing.T) {
	out, err := FromBytes(NewPacketAckPacket([]uint32{1, 2, 70000}).ToBytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := out.Body.(*PacketAck)
	if len(got.Packets) != 3 || got.Packets[2] != 70000 {
		t.Fatalf("ack sequence mismatch: %v", got.Packets)
	}
}

func TestChatFromSimulatorRoundTrip(t *testing.T) {
	chat := ChatFromSimulator{
		FromName:   "Tester Resident",
		SourceID:   uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		OwnerID:    uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		SourceType: ChatSourceAgent,
		ChatType:   ChatTypeNormal,
		Audible:    1,
		Message:    "hello, grid",
	}
	pkt := &Packet{Header: Header{ID: ChatFromSimulatorID, Frequency: Low}, Body: &chat}
	out, err := FromBytes(pkt.ToBytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := out.Body.(*ChatFromSimulator)
	if *got != chat {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, chat)
	}
}

func TestChatFromSimulatorTruncated(t *testing.T) {
	if _, err := DecodeChatFromSimulator([]byte{10, 'a', 'b'}); !errors.Is(err, ErrBodyTooShort) {
		t.Fatalf("expected ErrBodyTooShort, got %v", err)
	}
}

func TestCoarseLocationUpdateRoundTrip(t *testing.T) {
	u := CoarseLocationUpdate{
		Positions: [][3]byte{{1, 2, 3}, {4, 5, 6}},
		You:       0,
		Prey:      -1,
	}
	pkt := &Packet{Header: Header{ID: CoarseLocationUpdateID, Frequency: Medium}, Body: &u}
	out, err := FromBytes(pkt.ToBytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := out.Body.(*CoarseLocationUpdate)
	if len(got.Positions) != 2 || got.Positions[1] != [3]byte{4, 5, 6} || got.Prey != -1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestAgentUpdateMinimumLength(t *testing.T) {
	if _, err := DecodeAgentUpdate(make([]byte, 31)); !errors.Is(err, ErrBodyTooShort) {
		t.Fatalf("expected ErrBodyTooShort, got %v", err)
	}
	if _, err := DecodeAgentUpdate(make([]byte, 114)); err != nil {
		t.Fatalf("full body: %v", err)
	}
}
