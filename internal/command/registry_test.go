package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name      string
	aliases   []string
	namespace string
	ran       int
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return "stub" }
func (c *stubCommand) Aliases() []string   { return c.aliases }
func (c *stubCommand) Run(ctx interface{}) error {
	c.ran++
	return nil
}

func (c *stubCommand) ComponentNamespace() string { return c.namespace }
func (c *stubCommand) Component(ctx *ComponentContext) error {
	c.ran++
	return nil
}

func TestRegistryAliases(t *testing.T) {
	cmd := &stubCommand{name: "playlist", aliases: []string{"pl"}}
	Register(cmd)

	byName, ok := Get("playlist")
	require.True(t, ok)
	byAlias, ok2 := Get("pl")
	require.True(t, ok2)
	assert.Same(t, byName, byAlias)

	// All deduplicates aliased entries.
	count := 0
	for _, c := range All() {
		if c.Name() == "playlist" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestComponentNamespaceExactMatch(t *testing.T) {
	Register(&stubCommand{name: "panel", namespace: "player"})

	_, ok := GetComponentHandler("player")
	assert.True(t, ok)

	// No prefix matching: a forged ID with a superstring namespace must not
	// route to the panel.
	_, ok = GetComponentHandler("players")
	assert.False(t, ok)
	_, ok = GetComponentHandler("play")
	assert.False(t, ok)
}

func TestApplyMiddlewaresOrder(t *testing.T) {
	var order []string
	mk := func(tag string) Middleware {
		return func(next Command) Command {
			return &wrappedCommand{
				Command: next,
				wrap: func(ctx interface{}) error {
					order = append(order, tag)
					return dispatch(next, ctx)
				},
			}
		}
	}

	inner := &stubCommand{name: "probe"}
	cmd := ApplyMiddlewares(inner, mk("first"), mk("second"))
	require.NoError(t, cmd.Run(&MessageContext{}))

	// Last applied middleware runs first.
	assert.Equal(t, []string{"second", "first"}, order)
	assert.Equal(t, 1, inner.ran)
}

func TestWrappedCommandKeepsComponentNamespace(t *testing.T) {
	inner := &stubCommand{name: "panel2", namespace: "mod"}
	cmd := ApplyMiddlewares(inner, WithGuildOnly)

	h, ok := cmd.(ComponentHandler)
	require.True(t, ok)
	assert.Equal(t, "mod", h.ComponentNamespace())
}
