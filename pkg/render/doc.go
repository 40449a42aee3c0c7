// Package render serializes vdom trees to HTML.
//
// The renderer handles:
//
//   - HTML5 element rendering with void elements (input, br, img, etc.)
//   - Text and attribute escaping, with raw text inside script and style
//   - Boolean attributes (disabled, checked, etc.) rendered bare
//   - Reflecting form values into the markup
//   - Hydration IDs for elements that carry event listeners
//   - Full pages with injected inline scripts
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Hydration IDs
//
// With HydrationIDs enabled, every element that has listeners receives a
// data-hid attribute plus one data-on-<event> marker per listened event
// type. IDs are stored on the elements, so re-rendering the same tree keeps
// them stable and a live client can address elements between renders.
package render
