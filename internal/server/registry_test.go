package server

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func box(name, uri, key string) Server {
	return Server{Name: name, URI: uri, APIKey: key, Icon: "server", IconColor: "#ffffff"}
}

func TestRegistry_AddAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry()

	id, err := r.Add(box("Box", "http://10.0.0.5", "abc123"))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if id != 0 {
		t.Fatalf("first id = %d, want 0", id)
	}

	id, err = r.Add(box("Box2", "http://10.0.0.6", "def456"))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("second id = %d, want 1", id)
	}

	got, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.APIKey != "def456" || got.IDValue() != 1 {
		t.Fatalf("Get = %#v, want apiKey def456 id 1", got)
	}
}

func TestRegistry_NewIDIsMaxPlusOne(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add(box("Seven", "http://a", "k7").WithID(7)); err != nil {
		t.Fatalf("Add with id: %v", err)
	}
	if _, err := r.Add(box("Two", "http://b", "k2").WithID(2)); err != nil {
		t.Fatalf("Add with id: %v", err)
	}

	id, err := r.Add(box("New", "http://c", "k-new"))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if id != 8 {
		t.Fatalf("id = %d, want 8", id)
	}
}

func TestRegistry_DuplicateAPIKeyRejected(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add(box("Box", "http://10.0.0.5", "abc123")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, err := r.Add(box("Box2", "http://10.0.0.6", "abc123"))
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("Add error = %v, want *DuplicateKeyError", err)
	}
	fields, ok := FieldErrors(err)
	if !ok || fields["apiKey"] != "Api Key already exists!" {
		t.Fatalf("FieldErrors = %v, want apiKey message", fields)
	}

	list := r.List()
	if len(list) != 1 || list[0].Name != "Box" {
		t.Fatalf("List = %#v, want only the first server", list)
	}
}

func TestRegistry_AddWithIDBypassesUniqueness(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Add(box("A", "http://a", "key-a"))
	b, _ := r.Add(box("B", "http://b", "key-b"))

	edited := box("B edited", "http://b", "key-a").WithID(b)
	if _, err := r.Add(edited); err != nil {
		t.Fatalf("edit returned error: %v", err)
	}

	gotA, _ := r.Get(a)
	gotB, _ := r.Get(b)
	if gotA.APIKey != "key-a" || gotB.APIKey != "key-a" || gotB.Name != "B edited" {
		t.Fatalf("after edit A=%#v B=%#v", gotA, gotB)
	}

	ids := r.IDs()
	if !reflect.DeepEqual(ids, []int{a, b}) {
		t.Fatalf("IDs = %v, want order preserved [%d %d]", ids, a, b)
	}
}

func TestRegistry_AddWithUnknownIDCreates(t *testing.T) {
	r := NewRegistry()
	id, err := r.Add(box("Ghost", "http://g", "g").WithID(42))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
	if _, err := r.Get(42); err != nil {
		t.Fatalf("Get(42) returned error: %v", err)
	}
}

func TestRegistry_ValidationErrorPropagates(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add(Server{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Add error = %v, want *ValidationError", err)
	}
	if r.HasServer() {
		t.Fatalf("HasServer = true after rejected add")
	}
}

func TestRegistry_RemoveScenario(t *testing.T) {
	r := NewRegistry()
	id, err := r.Add(box("Box", "http://10.0.0.5", "abc123"))
	if err != nil || id != 0 {
		t.Fatalf("Add = (%d, %v), want (0, nil)", id, err)
	}
	if !r.HasServer() {
		t.Fatalf("HasServer = false, want true")
	}

	r.Remove(0)
	if r.HasServer() {
		t.Fatalf("HasServer = true after remove, want false")
	}
	if len(r.List()) != 0 {
		t.Fatalf("List = %v, want empty", r.List())
	}
}

func TestRegistry_RemoveUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Add(box("A", "http://a", "a"))
	_, _ = r.Add(box("B", "http://b", "b"))
	before := r.List()

	notified := 0
	r.Subscribe(func() { notified++ })
	r.Remove(99)

	if after := r.List(); !reflect.DeepEqual(before, after) {
		t.Fatalf("List changed: before %#v after %#v", before, after)
	}
	if notified != 0 {
		t.Fatalf("subscribers notified %d times, want 0", notified)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(3)
	if !IsNotFound(err) {
		t.Fatalf("Get error = %v, want NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "3") {
		t.Fatalf("error = %q, want it to mention the id", err.Error())
	}
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := NewRegistry()
	s := box("A", "http://a", "a")
	s.LocalNetworks = []string{"10.0.0.0/8"}
	id, _ := r.Add(s)

	s.LocalNetworks[0] = "mutated"
	got, _ := r.Get(id)
	got.LocalNetworks[0] = "also mutated"
	*got.ID = 77

	again, _ := r.Get(id)
	if again.LocalNetworks[0] != "10.0.0.0/8" || again.IDValue() != id {
		t.Fatalf("registry record shared memory with caller: %#v", again)
	}
}

func TestRegistry_SubscribeAndCancel(t *testing.T) {
	r := NewRegistry()
	calls := 0
	cancel := r.Subscribe(func() { calls++ })

	id, _ := r.Add(box("A", "http://a", "a"))
	r.Remove(id)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}

	cancel()
	_, _ = r.Add(box("B", "http://b", "b"))
	if calls != 2 {
		t.Fatalf("calls = %d after cancel, want 2", calls)
	}
}

func TestRegistry_Restore(t *testing.T) {
	r := NewRegistry()
	r.Restore([]Server{
		box("Three", "http://3", "k3").WithID(3),
		box("NoID", "http://x", "kx"),
		box("One", "http://1", "k1").WithID(1),
	})

	ids := r.IDs()
	if !reflect.DeepEqual(ids, []int{3, 1}) {
		t.Fatalf("IDs = %v, want [3 1]", ids)
	}
	id, err := r.Add(box("Next", "http://n", "kn"))
	if err != nil || id != 4 {
		t.Fatalf("Add after restore = (%d, %v), want (4, nil)", id, err)
	}
}
