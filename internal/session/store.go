package session

import "sync"

// Store é a tabela de sessões vivas de um coordenador e o vínculo conexão -> sessão.
// Não existe instância global: cada Coordinator tem a sua.
//
// Ordem de travas: quem precisa das duas pega GameRoom.mu antes de Store.mu.
// Os métodos do Store nunca tocam em GameRoom.mu.
type Store struct {
	mu       sync.Mutex
	rooms    map[string]*GameRoom
	bindings map[string]string // ID da conexão -> ID da sessão
}

func NewStore() *Store {
	return &Store{
		rooms:    make(map[string]*GameRoom),
		bindings: make(map[string]string),
	}
}

// Insert atribui um ID livre à sala, guarda e vincula as conexões já sentadas.
// newID é chamado de novo enquanto o ID gerado colidir com uma sessão viva.
func (s *Store) Insert(room *GameRoom, newID func() string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newID()
	for {
		if _, taken := s.rooms[id]; !taken {
			break
		}
		id = newID()
	}
	room.ID = id
	s.rooms[id] = room
	for _, c := range room.seats {
		if c != nil {
			s.bindings[c.ID()] = id
		}
	}
	return id
}

// Get busca por correspondência exata do ID.
func (s *Store) Get(id string) (*GameRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

func (s *Store) Bind(connID, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[connID] = roomID
}

// BindingOf retorna a sessão à qual a conexão está vinculada.
func (s *Store) BindingOf(connID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.bindings[connID]
	return id, ok
}

// Unbind desfaz o vínculo só se ele ainda apontar para roomID.
func (s *Store) Unbind(connID, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bindings[connID] == roomID {
		delete(s.bindings, connID)
	}
}

// Remove tira a sessão da tabela e desfaz os vínculos das conexões informadas.
func (s *Store) Remove(roomID string, connIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	for _, connID := range connIDs {
		if s.bindings[connID] == roomID {
			delete(s.bindings, connID)
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Rooms retorna uma cópia da lista de salas vivas.
func (s *Store) Rooms() []*GameRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]*GameRoom, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
