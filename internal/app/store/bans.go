package store

import "sort"

// IsIPBanned reports whether the address is on the banned-IP list.
func (s *Store) IsIPBanned(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, banned := s.bannedIPs[ip]
	return banned
}

// BanIP adds the address to the banned-IP list and persists it.
func (s *Store) BanIP(ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bannedIPs[ip] = struct{}{}
	return s.saveBannedIPsLocked()
}

// UnbanIP removes the address from the banned-IP list and persists it.
func (s *Store) UnbanIP(ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bannedIPs, ip)
	return s.saveBannedIPsLocked()
}

// BannedIPs returns the banned addresses in sorted order.
func (s *Store) BannedIPs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bannedIPListLocked()
}

func (s *Store) bannedIPListLocked() []string {
	ips := make([]string, 0, len(s.bannedIPs))
	for ip := range s.bannedIPs {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}

// saveBannedIPsLocked persists the banned-IP list sorted, keeping the file
// stable across rewrites. Callers hold s.mu.
func (s *Store) saveBannedIPsLocked() error {
	return saveJSON(s.path(ipBanFile), s.bannedIPListLocked())
}
