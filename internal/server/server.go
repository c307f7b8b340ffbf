package server

import "slices"

// NameMaxLength is the longest server name accepted by Validate.
const NameMaxLength = 48

// Server is a configured remote media-management API endpoint.
type Server struct {
	ID            *int     `json:"id,omitempty"`
	Name          string   `json:"name" validate:"required,max=48"`
	Icon          string   `json:"icon"`
	IconColor     string   `json:"iconColor"`
	URI           string   `json:"uri" validate:"required"`
	URILocal      string   `json:"uriLocal,omitempty"`
	LocalNetworks []string `json:"localNetworks,omitempty"`
	APIKey        string   `json:"apiKey" validate:"required"`
}

// HasID reports whether the record has been assigned an id.
func (s Server) HasID() bool {
	return s.ID != nil
}

// IDValue returns the assigned id, or -1 when none is set.
func (s Server) IDValue() int {
	if s.ID == nil {
		return -1
	}
	return *s.ID
}

// WithID returns a copy of s carrying the given id.
func (s Server) WithID(id int) Server {
	dup := s.clone()
	dup.ID = &id
	return dup
}

// clone returns a deep copy so callers never share the id pointer or
// network slice with the registry.
func (s Server) clone() Server {
	dup := s
	if s.ID != nil {
		id := *s.ID
		dup.ID = &id
	}
	dup.LocalNetworks = slices.Clone(s.LocalNetworks)
	return dup
}
