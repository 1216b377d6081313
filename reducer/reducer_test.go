package reducer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/actionplan/action"
)

// add returns a handler adding n to the state, treating absent as zero.
func add(n int) Handler[int] {
	return func(s State[int], _ action.Action) State[int] {
		return Some(s.OrElse(0) + n)
	}
}

// tag returns a handler that records which handler ran.
func tag(name string, calls *[]string) Handler[int] {
	return func(s State[int], _ action.Action) State[int] {
		*calls = append(*calls, name)
		return s
	}
}

// seen returns a handler that records the state it was given.
func seen(got *[]State[int]) Handler[int] {
	return func(s State[int], _ action.Action) State[int] {
		*got = append(*got, s)
		return s
	}
}

var (
	actT = action.New("T")
	actU = action.New("U")
)

func TestNoop(t *testing.T) {
	t.Run("with initial state", func(t *testing.T) {
		r := Noop(Some(7))
		assert.Equal(t, Some(7), r(Absent[int](), actT))
		assert.Equal(t, Some(3), r(Some(3), actT))
		assert.Equal(t, Some(3), r(Some(3), actU))
	})

	t.Run("without initial state uses the zero value", func(t *testing.T) {
		r := Noop(Absent[int]())
		assert.Equal(t, Some(0), r(Absent[int](), actT))
		assert.Equal(t, Some(5), r(Some(5), actT))
	})

	t.Run("ignores the action", func(t *testing.T) {
		r := Noop(Some("init"))
		assert.Equal(t, r(Absent[string](), actT), r(Absent[string](), action.Action{}))
	})
}

func TestBindOne(t *testing.T) {
	tests := []struct {
		name    string
		handler Handler[int]
		init    State[int]
		state   State[int]
		act     action.Action
		want    State[int]
	}{
		// no handler, no initial state
		{"identity keeps absent", nil, Absent[int](), Absent[int](), actT, Absent[int]()},
		{"identity keeps state", nil, Absent[int](), Some(4), actT, Some(4)},

		// no handler, initial state
		{"init on match and absent", nil, Some(10), Absent[int](), actT, Some(10)},
		{"no init on match and present", nil, Some(10), Some(4), actT, Some(4)},
		{"no init without match", nil, Some(10), Absent[int](), actU, Absent[int]()},

		// handler, no initial state
		{"handler on match", add(1), Absent[int](), Some(4), actT, Some(5)},
		{"handler sees absent", add(1), Absent[int](), Absent[int](), actT, Some(1)},
		{"no handler without match", add(1), Absent[int](), Some(4), actU, Some(4)},
		{"absent stays absent without match", add(1), Absent[int](), Absent[int](), actU, Absent[int]()},

		// handler, initial state
		{"handler gets init on match", add(1), Some(10), Absent[int](), actT, Some(11)},
		{"handler gets state on match", add(1), Some(10), Some(4), actT, Some(5)},
		{"no substitution without match", add(1), Some(10), Absent[int](), actU, Absent[int]()},
		{"state unchanged without match", add(1), Some(10), Some(4), actU, Some(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BindOne("T", tt.handler, tt.init)
			assert.Equal(t, tt.want, r(tt.state, tt.act))
		})
	}
}

func TestBindOne_HandlerReceivesSubstitutedState(t *testing.T) {
	var got []State[int]
	r := BindOne("T", seen(&got), Some(42))

	r(Absent[int](), actT)
	r(Some(1), actT)
	r(Absent[int](), actU)

	assert.Equal(t, []State[int]{Some(42), Some(1)}, got)
}

func TestBindOne_HandlerReceivesAction(t *testing.T) {
	var got action.Action
	r := BindOne("SET", func(s State[int], a action.Action) State[int] {
		got = a
		v, _ := a.Get("payload")
		return Some(v.(int))
	}, Absent[int]())

	a := action.NewCreator("SET")(9)
	assert.Equal(t, Some(9), r(Absent[int](), a))
	assert.Equal(t, a.String(), got.String())
}

func TestCombine(t *testing.T) {
	t.Run("dispatches to exactly one handler", func(t *testing.T) {
		var calls []string
		r := Combine(map[action.Type]Handler[int]{
			"T1": tag("h1", &calls),
			"T2": tag("h2", &calls),
		}, Some(0))

		r(Absent[int](), action.New("T1"))
		assert.Equal(t, []string{"h1"}, calls)

		r(Absent[int](), action.New("T2"))
		assert.Equal(t, []string{"h1", "h2"}, calls)
	})

	t.Run("unrecognised type with init substitutes", func(t *testing.T) {
		r := Combine(map[action.Type]Handler[int]{"T": add(1)}, Some(10))
		assert.Equal(t, Some(10), r(Absent[int](), actU))
		assert.Equal(t, Some(3), r(Some(3), actU))
	})

	t.Run("unrecognised type without init keeps absent", func(t *testing.T) {
		r := Combine(map[action.Type]Handler[int]{"T": add(1)}, Absent[int]())
		assert.Equal(t, Absent[int](), r(Absent[int](), actU))
	})

	t.Run("handler gets init for absent state", func(t *testing.T) {
		var got []State[int]
		r := Combine(map[action.Type]Handler[int]{"T": seen(&got)}, Some(10))
		r(Absent[int](), actT)
		assert.Equal(t, []State[int]{Some(10)}, got)
	})

	t.Run("handler gets absent without init", func(t *testing.T) {
		var got []State[int]
		r := Combine(map[action.Type]Handler[int]{"T": seen(&got)}, Absent[int]())
		r(Absent[int](), actT)
		assert.Equal(t, []State[int]{Absent[int]()}, got)
	})

	t.Run("nil handler counts as unbound", func(t *testing.T) {
		r := Combine(map[action.Type]Handler[int]{"T": nil}, Some(1))
		assert.Equal(t, Some(1), r(Absent[int](), actT))
	})

	t.Run("empty and nil maps", func(t *testing.T) {
		assert.Equal(t, Some(1), Combine[int](nil, Some(1))(Absent[int](), actT))
		assert.Equal(t, Some(2), Combine(map[action.Type]Handler[int]{}, Absent[int]())(Some(2), actT))
	})
}

func TestCombine_CopiesHandlers(t *testing.T) {
	handlers := map[action.Type]Handler[int]{"T": add(1)}
	r := Combine(handlers, Some(0))

	handlers["T"] = add(100)
	handlers["U"] = add(1000)
	delete(handlers, "T")

	assert.Equal(t, Some(1), r(Some(0), actT))
	assert.Equal(t, Some(0), r(Some(0), actU))
}

func TestBindMany(t *testing.T) {
	t.Run("shared handler for every type", func(t *testing.T) {
		r := BindMany([]action.Type{"T", "U"}, add(2), Some(0))
		assert.Equal(t, Some(2), r(Absent[int](), actT))
		assert.Equal(t, Some(4), r(Some(2), actU))
		assert.Equal(t, Some(2), r(Some(2), action.New("V")))
	})

	t.Run("no handler passes state through", func(t *testing.T) {
		r := BindMany[int]([]action.Type{"T"}, nil, Some(5))
		assert.Equal(t, Some(5), r(Absent[int](), actT))
		assert.Equal(t, Some(3), r(Some(3), actT))
	})

	t.Run("no handler and no init keeps absent", func(t *testing.T) {
		r := BindMany[int]([]action.Type{"T"}, nil, Absent[int]())
		assert.Equal(t, Absent[int](), r(Absent[int](), actT))
	})

	t.Run("no types ignores handler", func(t *testing.T) {
		var calls []string
		r := BindMany(nil, tag("h", &calls), Some(5))
		assert.Equal(t, Some(5), r(Absent[int](), actT))
		assert.Empty(t, calls)
	})

	t.Run("types slice is copied", func(t *testing.T) {
		types := []action.Type{"T"}
		r := BindMany(types, add(1), Some(0))
		types[0] = "U"
		assert.Equal(t, Some(1), r(Some(0), actT))
		assert.Equal(t, Some(0), r(Some(0), actU))
	})
}

func TestReducers_UnrecognisedActionIsIdempotent(t *testing.T) {
	reducers := map[string]Reducer[int]{
		"noop":    Noop(Some(1)),
		"one":     BindOne("T", add(1), Some(1)),
		"many":    BindMany([]action.Type{"T"}, add(1), Some(1)),
		"combine": Combine(map[action.Type]Handler[int]{"T": add(1)}, Some(1)),
	}

	for name, r := range reducers {
		t.Run(name, func(t *testing.T) {
			for _, start := range []State[int]{Absent[int](), Some(8)} {
				once := r(start, actU)
				twice := r(once, actU)
				assert.Equal(t, once, twice)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	r := BindMany([]action.Type{"INC", "DEC"}, func(s State[int], a action.Action) State[int] {
		n := s.OrElse(0)
		if a.Type == "INC" {
			return Some(n + 1)
		}
		return Some(n - 1)
	}, Some(0))

	inc, dec := action.New("INC"), action.New("DEC")

	assert.Equal(t, Some(2), Replay(r, Absent[int](), inc, inc, dec, inc, action.New("OTHER")))
	assert.Equal(t, Some(5), Replay(r, Some(5)))
	assert.Equal(t, Some(0), Replay(r, Absent[int](), action.New("OTHER")))
}

func TestCombine_ConcurrentUse(t *testing.T) {
	r := Combine(map[action.Type]Handler[int]{"T": add(1)}, Some(0))

	var wg sync.WaitGroup
	results := make([]State[int], 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Replay(r, Absent[int](), actT, actU, actT)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, Some(2), got)
	}
}
