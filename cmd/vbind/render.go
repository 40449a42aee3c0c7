package main

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
)

type renderOptions struct {
	project  projectFlags
	sets     []string
	events   []string
	pretty   bool
	fragment bool
	strip    bool
	strict   bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compile a template and print the resulting HTML",
		Long: `Compile a template against a data store, apply writes and
simulated events, and print the resulting HTML.

Writes (--set) are applied in order, then events (--event) in order.
Values are parsed as YAML scalars, so 3 is a number and true a boolean.
An event names a selector and an event type, optionally followed by a
form value that is set on the target before dispatch.

Examples:
  vbind render -t page.html -d data.yaml
  vbind render -t page.html -d data.json --set count=3 --event '#inc@click'
  vbind render -t s3://views/page.html --event 'input[name=q]@input=hello'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	opts.project.register(cmd)
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Write key=value into the store after compiling")
	cmd.Flags().StringArrayVar(&opts.events, "event", nil, "Dispatch 'selector@type[=value]' after the writes")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Print only the root element")
	cmd.Flags().BoolVar(&opts.strip, "strip", false, "Omit directive attributes from the output")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when the template produced diagnostics")

	return cmd
}

func runRender(ctx context.Context, out, errOut io.Writer, opts renderOptions) error {
	p, err := opts.project.load(ctx)
	if err != nil {
		return err
	}

	doc, err := vdom.ParseString(p.markup)
	if err != nil {
		return errors.New(errors.CodeSourceDecode).WithWhere("template").Wrap(err)
	}

	var el any
	if p.cfg.El != "" {
		el = p.cfg.El
	}
	vm, err := vbind.New(vbind.Options{
		El:             el,
		Document:       doc,
		Data:           p.data,
		Methods:        vbind.StdMethods(),
		MaxUpdateDepth: p.cfg.MaxUpdateDepth,
	})
	if err != nil {
		return err
	}
	defer vm.Destroy()
	if vm.El() == nil {
		return errors.New(errors.CodeMissingRoot).
			WithDetailf("no element matches %q", p.cfg.El).
			WithSuggestion("Check --el or the el setting in " + config.ConfigFileName)
	}

	for _, s := range opts.sets {
		key, value, err := parseSet(s)
		if err != nil {
			return err
		}
		vm.Set(key, value)
	}
	for _, e := range opts.events {
		if err := dispatchEvent(doc, e); err != nil {
			return err
		}
	}

	rc := render.RendererConfig{
		Pretty:        opts.pretty || p.cfg.Pretty,
		ReflectValues: true,
	}
	if opts.strip {
		rc.OmitAttrPrefixes = []string{"v-", "@"}
	}
	r := render.NewRenderer(rc)
	if opts.fragment {
		err = r.RenderToWriter(out, vm.El())
	} else {
		err = r.RenderDocument(out, doc)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	diags := vm.Diagnostics()
	warnDiagnostics(errOut, diags)
	if opts.strict && len(diags) > 0 {
		return fmt.Errorf("template produced %d diagnostics", len(diags))
	}
	return nil
}

// parseSet splits key=value and decodes value as a YAML scalar or
// flow collection.
func parseSet(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, errors.New(errors.CodeConfigInvalid).
			WithDetailf("--set %q must have the form key=value", s)
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return key, normalizeValue(value), nil
}

// normalizeValue converts YAML's container types to the shapes the store
// observes.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeValue(e)
		}
	case []any:
		for i, e := range x {
			x[i] = normalizeValue(e)
		}
	}
	return v
}

// eventTypeRE matches the part after the selector: an event type and an
// optional form value.
var eventTypeRE = regexp.MustCompile(`(?s)^([A-Za-z][\w.-]*)(?:=(.*))?$`)

// parseEventArg splits 'selector@type[=value]'. The separator is the
// first '@' followed by an event type, so values may contain '@' and
// selectors may contain '='.
func parseEventArg(arg string) (sel, typ, value string, hasValue bool, err error) {
	for i := strings.Index(arg, "@"); i >= 0; {
		if i > 0 {
			if m := eventTypeRE.FindStringSubmatchIndex(arg[i+1:]); m != nil {
				rest := arg[i+1:]
				typ = rest[m[2]:m[3]]
				if m[4] >= 0 {
					value, hasValue = rest[m[4]:m[5]], true
				}
				return arg[:i], typ, value, hasValue, nil
			}
		}
		next := strings.Index(arg[i+1:], "@")
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", "", "", false, errors.New(errors.CodeConfigInvalid).
		WithDetailf("--event %q must have the form selector@type[=value]", arg)
}

// dispatchEvent delivers 'selector@type[=value]' to the first element
// matching selector.
func dispatchEvent(doc *vdom.Document, arg string) error {
	sel, typ, value, hasValue, err := parseEventArg(arg)
	if err != nil {
		return err
	}

	el, err := doc.QuerySelector(sel)
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).WithWhere(sel).Wrap(err)
	}
	if el == nil {
		return errors.New(errors.CodeUnknownTarget).WithDetailf("no element matches %q", sel)
	}
	if hasValue {
		el.SetValue(value)
	}
	el.DispatchEvent(vdom.NewEvent(typ))
	return nil
}
