package viewer_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/archive"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/viewer"
)

func TestMachine(t *testing.T) {
	Convey("Given a viewer for an available report", t, func() {
		m := viewer.Start(archive.Item{ID: "r", Available: true})

		So(m.State(), ShouldEqual, viewer.Uninitialized)
		So(m.Tier(), ShouldEqual, viewer.Rich)

		Convey("When the worker starts and the page renders", func() {
			So(m.Fire(viewer.WorkerInitialized), ShouldBeNil)
			So(m.Fire(viewer.LoadStarted), ShouldBeNil)
			So(m.State(), ShouldEqual, viewer.Loading)
			So(m.Fire(viewer.PageRendered), ShouldBeNil)

			Convey("Then it displays with the rich renderer", func() {
				So(m.State(), ShouldEqual, viewer.Displaying)
				So(m.Tier(), ShouldEqual, viewer.Rich)
			})
		})

		Convey("When the worker fails to initialize", func() {
			So(m.Fire(viewer.WorkerFailed), ShouldBeNil)

			Convey("Then it falls back to the native embed", func() {
				So(m.State(), ShouldEqual, viewer.Displaying)
				So(m.Tier(), ShouldEqual, viewer.Embed)
			})

			Convey("And the embed fails too", func() {
				So(m.Fire(viewer.EmbedFailed), ShouldBeNil)

				Convey("Then it shows the static fallback in the error state", func() {
					So(m.State(), ShouldEqual, viewer.Failed)
					So(m.Tier(), ShouldEqual, viewer.Static)
					So(m.State().String(), ShouldEqual, "error")
				})
			})
		})

		Convey("When a page fails to render", func() {
			So(m.Fire(viewer.WorkerInitialized), ShouldBeNil)
			So(m.Fire(viewer.LoadStarted), ShouldBeNil)
			So(m.Fire(viewer.RenderFailed), ShouldBeNil)

			Convey("Then it falls back to the native embed", func() {
				So(m.Tier(), ShouldEqual, viewer.Embed)
			})

			Convey("Then it never returns to the rich renderer", func() {
				So(errors.Is(m.Fire(viewer.LoadStarted), viewer.ErrInvalidTransition), ShouldBeTrue)
				So(errors.Is(m.Fire(viewer.PageRendered), viewer.ErrInvalidTransition), ShouldBeTrue)
				So(m.Tier(), ShouldEqual, viewer.Embed)
			})
		})

		Convey("When an event arrives out of order", func() {
			err := m.Fire(viewer.PageRendered)

			Convey("Then it is rejected and the state is unchanged", func() {
				So(errors.Is(err, viewer.ErrInvalidTransition), ShouldBeTrue)
				So(m.State(), ShouldEqual, viewer.Uninitialized)
			})
		})
	})

	Convey("Given the initial viewer of the served page", t, func() {
		m := viewer.Initial(archive.Item{ID: "r", Available: true})

		Convey("Then an available report opens on the embed tier", func() {
			So(m.State(), ShouldEqual, viewer.Displaying)
			So(m.Tier(), ShouldEqual, viewer.Embed)
		})

		Convey("Then a failing embed still reaches the static tier", func() {
			So(m.Fire(viewer.EmbedFailed), ShouldBeNil)
			So(m.Tier(), ShouldEqual, viewer.Static)
		})

		Convey("Then an unavailable report opens on the static tier", func() {
			u := viewer.Initial(archive.Item{ID: "r", Available: false})
			So(u.Tier(), ShouldEqual, viewer.Static)
			So(u.State(), ShouldEqual, viewer.Failed)
		})
	})

	Convey("Given a viewer for an unavailable report", t, func() {
		m := viewer.Start(archive.Item{ID: "r", Available: false})

		Convey("Then it starts on the static tier", func() {
			So(m.Tier(), ShouldEqual, viewer.Static)
			So(m.State(), ShouldEqual, viewer.Failed)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given an archive item", t, func() {
		item, ok := archive.Find("2024-summit-report")
		So(ok, ShouldBeTrue)

		Convey("When the viewer page is rendered", func() {
			var b strings.Builder
			So(viewer.Render(&b, item), ShouldBeNil)
			html := b.String()

			Convey("Then it carries every tier and shows the embed", func() {
				So(html, ShouldContainSubstring, `data-tier="embed"`)
				So(html, ShouldContainSubstring, `<embed src="/api/pdf/2024-summit-report"`)
				So(html, ShouldContainSubstring, "Download PDF")
				So(html, ShouldContainSubstring, `class="tier-rich" hidden`)
				So(html, ShouldNotContainSubstring, `class="tier-embed" hidden`)
				So(html, ShouldContainSubstring, `class="tier-static" hidden`)
			})

			Convey("Then its script falls back from the embed to the static tier", func() {
				So(html, ShouldContainSubstring, "<script>")
				So(html, ShouldContainSubstring, `navigator.pdfViewerEnabled === false`)
				So(html, ShouldContainSubstring, `embed.addEventListener("error", embedFailed)`)
				So(html, ShouldContainSubstring, `show("static")`)
			})
		})

		Convey("When the item is not available", func() {
			item.Available = false
			var b strings.Builder
			So(viewer.Render(&b, item), ShouldBeNil)

			Convey("Then the page starts on the static tier", func() {
				So(b.String(), ShouldContainSubstring, `data-tier="static"`)
				So(b.String(), ShouldContainSubstring, "not available online yet")
			})
		})
	})
}
