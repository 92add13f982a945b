package chip

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var rawVariants []byte

var builtin *Catalog

// Builtin returns the catalog of variants shipped with the module.
func Builtin() *Catalog {
	return builtin
}

// Catalog is an ordered set of resolved chip variants. The declarations they
// were resolved from are kept so catalogs can be combined.
type Catalog struct {
	raw      []Variant
	variants []Variant
}

type catalogFile struct {
	Variants []Variant `yaml:"variants"`
}

type variantNode struct {
	index int
	id    int64
}

func (n *variantNode) ID() int64 {
	return n.id
}

// DecodeCatalog decodes variant declarations without resolving them.
func DecodeCatalog(r io.Reader) ([]Variant, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVariant, err)
	}
	return f.Variants, nil
}

// LoadCatalog decodes variant data, resolves inheritance between variants and
// validates the result.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	raw, err := DecodeCatalog(r)
	if err != nil {
		return nil, err
	}
	return NewCatalog(raw...)
}

// NewCatalog resolves and validates raw variants. Order is preserved.
func NewCatalog(raw ...Variant) (*Catalog, error) {
	byName := map[string]int{}
	for i, v := range raw {
		key := strings.ToLower(v.Name)
		if _, ok := byName[key]; ok {
			return nil, fmt.Errorf("%w: duplicate variant %q", ErrInvalidVariant, v.Name)
		}
		byName[key] = i
	}

	// Bases must be resolved before the variants extending them.
	g := multi.NewDirectedGraph()
	nodes := make([]*variantNode, len(raw))
	for i := range raw {
		nodes[i] = &variantNode{index: i, id: int64(i)}
		g.AddNode(nodes[i])
	}

	for i, v := range raw {
		if len(v.Extends) == 0 {
			continue
		}
		base, ok := byName[strings.ToLower(v.Extends)]
		if !ok {
			return nil, fmt.Errorf("%w: %s extends %q", ErrVariantNotFound, v.Name, v.Extends)
		}
		if base == i {
			return nil, fmt.Errorf("%w: %s extends itself", ErrExtendsCycle, v.Name)
		}
		g.SetLine(g.NewLine(nodes[base], nodes[i]))
	}

	// Independent variants resolve in declaration order.
	sorted, err := topo.SortStabilized(g, func(ns []graph.Node) {
		sort.Slice(ns, func(i, j int) bool { return ns[i].ID() < ns[j].ID() })
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtendsCycle, err)
	}

	resolved := make([]Variant, len(raw))
	for _, node := range sorted {
		i := node.(*variantNode).index
		var base *Variant
		if len(raw[i].Extends) > 0 {
			base = &resolved[byName[strings.ToLower(raw[i].Extends)]]
		}
		if resolved[i], err = raw[i].resolve(base); err != nil {
			return nil, err
		}
	}

	var errs []error
	for _, v := range resolved {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Catalog{raw: slices.Clone(raw), variants: resolved}, nil
}

// All returns the variants in catalog order.
func (c *Catalog) All() []Variant {
	out := make([]Variant, len(c.variants))
	copy(out, c.variants)
	return out
}

// Names returns the variant names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.variants))
	for i, v := range c.variants {
		names[i] = v.Name
	}
	return names
}

// Find looks a variant up by name, ignoring case.
func (c *Catalog) Find(name string) (Variant, error) {
	for _, v := range c.variants {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrVariantNotFound, name)
}

// Extend returns a catalog holding c's declarations followed by raw, resolved
// together. Declarations in raw replace same-named ones of c in place, and
// variants extending a replaced base follow the replacement.
func (c *Catalog) Extend(raw ...Variant) (*Catalog, error) {
	out := slices.Clone(c.raw)
	added := map[string]struct{}{}
	for _, v := range raw {
		key := strings.ToLower(v.Name)
		if _, ok := added[key]; ok {
			return nil, fmt.Errorf("%w: duplicate variant %q", ErrInvalidVariant, v.Name)
		}
		added[key] = struct{}{}

		i := slices.IndexFunc(out, func(u Variant) bool {
			return strings.EqualFold(u.Name, v.Name)
		})
		if i >= 0 {
			out[i] = v
		} else {
			out = append(out, v)
		}
	}
	return NewCatalog(out...)
}

// Merge combines two catalogs as Extend does with other's declarations.
func (c *Catalog) Merge(other *Catalog) (*Catalog, error) {
	return c.Extend(other.raw...)
}

// MarshalCatalog writes resolved variants as catalog data. Reserved slots are
// spelled out.
func MarshalCatalog(w io.Writer, variants ...Variant) error {
	f := catalogFile{Variants: make([]Variant, len(variants))}
	for i, v := range variants {
		out := v
		out.Slots = make([]string, len(v.Slots))
		for j, name := range v.Slots {
			if len(name) == 0 {
				name = ReservedName
			}
			out.Slots[j] = name
		}
		f.Variants[i] = out
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	var err error
	builtin, err = LoadCatalog(strings.NewReader(string(rawVariants)))
	if err != nil {
		panic(err)
	}
}
