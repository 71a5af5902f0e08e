package modelfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/dsl"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a model document. ext selects JSON for ".json" and YAML otherwise.
func Parse(data []byte, ext string) (*ModelFile, error) {
	raw, err := unmarshal(data, ext)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

func unmarshal(data []byte, ext string) (map[string]any, error) {
	var raw map[string]any
	if strings.ToLower(ext) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse model json: %v", domain.ErrModel, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse model yaml: %v", domain.ErrModel, err)
		}
	}
	return raw, nil
}

// Decode maps the generic form of a model document, as read by any YAML or
// JSON reader, onto a ModelFile. Unknown keys are rejected.
func Decode(raw map[string]any) (*ModelFile, error) {
	var mf ModelFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &mf,
		WeaklyTypedInput: true, // `to: B` is shorthand for `to: [B]`
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModel, err)
	}
	return &mf, nil
}

// Digest fingerprints the generic form of a model document. Formatting and
// key order do not change it, so a YAML file and its JSON rendition agree.
func Digest(raw map[string]any) (string, error) {
	canonical, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to digest model: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Build assembles the process set the file describes.
func (mf *ModelFile) Build() (*process.Set, error) {
	if len(mf.Processes) == 0 {
		return nil, fmt.Errorf("%w: model declares no processes", domain.ErrModel)
	}

	b := dsl.New()

	names := make([]string, 0, len(mf.Actions))
	for name := range mf.Actions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := mf.Actions[name]
		envelopes := make([]domain.Envelope, 0, len(spec.Send))
		for _, env := range spec.Send {
			dest, err := destination(env.To)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", name, err)
			}
			if env.Message == "" {
				return nil, fmt.Errorf("%w: action %q sends an unnamed message", domain.ErrModel, name)
			}
			envelopes = append(envelopes, domain.Send(dest, b.Message(env.Message)))
		}
		b.Action(name, envelopes...)
	}

	// Composite nodes first, so edge targets never pre-declare them as simple nodes.
	for _, n := range mf.Nodes {
		switch {
		case n.ID == "":
			return nil, fmt.Errorf("%w: node without id", domain.ErrModel)
		case n.Product != nil && n.Derived != nil:
			return nil, fmt.Errorf("%w: node %q is both product and derived", domain.ErrModel, n.ID)
		case n.Product != nil:
			if n.Product.Empty == "" {
				return nil, fmt.Errorf("%w: product node %q has no empty message", domain.ErrModel, n.ID)
			}
			b.Product(n.ID, b.Message(n.Product.Empty), n.Product.Components...)
		case n.Derived != nil:
			b.Derived(n.ID, n.Derived.Prefix, n.Derived.Base)
		}
	}
	for _, n := range mf.Nodes {
		nb := b.Add(n.ID)
		for _, e := range n.Edges {
			target := e.To
			if target == "" {
				target = n.ID
			}
			var trigger domain.Message
			if e.Trigger != "" {
				trigger = b.Message(e.Trigger)
			}
			action := b.Action(e.Action)
			if e.When != "" || n.Derived != nil {
				nb.When(e.When, trigger, target, action)
			} else {
				nb.On(trigger, target, action)
			}
		}
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	set := process.NewSet()
	for _, spec := range mf.Processes {
		entry, err := g.Node(spec.Entry)
		if err != nil {
			return nil, fmt.Errorf("process %q: %w", spec.Name, err)
		}
		if _, err := set.AddProcess(spec.Name, entry); err != nil {
			return nil, err
		}
	}
	for _, spec := range mf.Processes {
		if spec.Product == nil {
			continue
		}
		if spec.Product.Empty == "" {
			return nil, fmt.Errorf("%w: process %q: product mapping has no empty message", domain.ErrModel, spec.Name)
		}
		p, err := set.Process(spec.Name)
		if err != nil {
			return nil, err
		}
		peers := make([]*process.Process, len(spec.Product.Peers))
		for i, name := range spec.Product.Peers {
			if peers[i], err = set.Process(name); err != nil {
				return nil, fmt.Errorf("%w: process %q: unknown peer %q", domain.ErrModel, spec.Name, name)
			}
		}
		empty := b.Message(spec.Product.Empty)
		p.AddInboundMapping(process.ProductInbound(peers, empty))
		p.AddOutboundMapping(process.ProductOutbound(peers, empty))
	}
	return set, nil
}

func destination(to []string) (domain.Destination, error) {
	switch len(to) {
	case 0:
		return nil, fmt.Errorf("%w: envelope without recipient", domain.ErrModel)
	case 1:
		switch to[0] {
		case domain.Response().Mnemonic():
			return domain.Response(), nil
		case domain.ProductResponse().Mnemonic():
			return domain.ProductResponse(), nil
		}
		return domain.To(to[0]), nil
	}
	members := make([]domain.Destination, len(to))
	for i, name := range to {
		members[i] = domain.To(name)
	}
	return domain.Group(members...), nil
}

// supported reports whether a file extension is a model document.
func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
