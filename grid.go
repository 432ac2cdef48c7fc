//
// Cooked forum markup processor
//

//
// [grid] image grid container
//
// [grid]...[/grid] wraps a run of images in <div class="d-image-grid">
// for masonry-style layout client side. In preview mode the container
// carries a toggle button so the author can flip the layout off before
// posting.
//

package cooked

func gridOpen(s *StateBlock, info *BBCodeTag) {
	s.Push("grid_open", "div", 1).AttrPush("class", "d-image-grid")
	if s.Opts.Previewing {
		btn := s.Push("html_block", "", 0)
		btn.Content = `<button class="grid-toggle">&#215;</button>` + "\n"
	}
}

func gridClose(s *StateBlock, info *BBCodeTag) {
	s.Push("grid_close", "div", -1)
}

func setupGrid(h *PluginHelper) {
	h.AllowList("div[class=d-image-grid]", "button[class=grid-toggle]")

	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if settings.EnableImageGrid {
			opts.Features["image-grid"] = true
		}
	})

	h.RegisterPlugin(func(e *Engine) {
		e.BBCode.RegisterBlock(&BBCodeBlockRule{
			Tag:     "grid",
			Enabled: func(opts *RenderOptions) bool { return opts.Features["image-grid"] },
			Open:    gridOpen,
			Close:   gridClose,
		})
	})
}
