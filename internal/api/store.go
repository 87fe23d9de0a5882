package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gcovdata/pkg/gcda"
)

type packetRecord struct {
	Meta   PacketMeta
	Packet *gcda.Packet
}

// PacketStore holds decoded packets uploaded through the API, keyed by
// server-assigned ID.
type PacketStore struct {
	mu      sync.Mutex
	packets map[string]*packetRecord
}

func NewPacketStore() *PacketStore {
	return &PacketStore{
		packets: make(map[string]*packetRecord),
	}
}

func (s *PacketStore) Create(name string, sizeBytes int, p *gcda.Packet, now time.Time) PacketMeta {
	meta := PacketMeta{
		ID:        newPacketID(),
		Name:      name,
		CreatedAt: now.UTC(),
		SizeBytes: sizeBytes,
		Version:   p.Version,
		Functions: len(p.Functions()),
	}

	s.mu.Lock()
	s.packets[meta.ID] = &packetRecord{Meta: meta, Packet: p}
	s.mu.Unlock()

	return meta
}

func (s *PacketStore) Get(id string) (*packetRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.packets[id]
	return rec, ok
}

func (s *PacketStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packets[id]; !ok {
		return false
	}
	delete(s.packets, id)
	return true
}

// List returns metadata for every stored packet, newest first.
func (s *PacketStore) List() []PacketMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	metas := make([]PacketMeta, 0, len(s.packets))
	for _, rec := range s.packets {
		metas = append(metas, rec.Meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].ID < metas[j].ID
		}
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas
}

func (s *PacketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.packets)
}

func newPacketID() string {
	return "pkt_" + uuid.NewString()
}
