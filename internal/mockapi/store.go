// Package mockapi serves an in-memory copy of the users collection for local runs and tests.
package mockapi

import (
	"sort"
	"sync"
)

// User is the collection's wire layout.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// Store hands out sequential ids starting after the highest seeded id.
type Store struct {
	mu     sync.Mutex
	users  map[int]User
	nextID int
}

func NewStore(seed ...User) *Store {
	s := &Store{users: make(map[int]User, len(seed)), nextID: 1}
	for _, u := range seed {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

// SetNextID moves the id counter, e.g. to reproduce a known create response.
func (s *Store) SetNextID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

// Page returns users ordered by id, one page at a time. page is 1-based.
func (s *Store) Page(page, perPage int) (users []User, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total = len(all)
	if page < 1 || perPage < 1 || page > PageCount(total, perPage) {
		return []User{}, total
	}
	start := (page - 1) * perPage
	end := total
	if perPage < total-start {
		end = start + perPage
	}
	return all[start:end], total
}

// PageCount is the number of pages needed for total users, perPage at a time.
func PageCount(total, perPage int) int {
	if perPage < 1 {
		return 0
	}
	n := total / perPage
	if total%perPage != 0 {
		n++
	}
	return n
}

func (s *Store) Get(id int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) Create(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return u
}

// Update replaces a stored user and reports whether it existed.
func (s *Store) Update(id int, u User) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = id
	if _, ok := s.users[id]; !ok {
		return u, false
	}
	s.users[id] = u
	return u, true
}

func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	delete(s.users, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// DefaultSeed is what `cards mock` starts with.
func DefaultSeed() []User {
	return []User{
		{ID: 1, FirstName: "Cat Luna", LastName: "$180", Email: "A calm British Shorthair who loves naps.", Avatar: "https://placekitten.com/200/200"},
		{ID: 2, FirstName: "Cat Milo", LastName: "$120", Email: "A playful tabby with endless energy!", Avatar: "https://placekitten.com/201/201"},
		{ID: 3, FirstName: "Cat Nala", LastName: "$220", Email: "A curious Bengal with a spotted coat.", Avatar: "https://placekitten.com/202/202"},
		{ID: 4, FirstName: "Cat Oscar", LastName: "$90", Email: "A gentle ginger who purrs on command.", Avatar: "https://placekitten.com/203/203"},
	}
}
