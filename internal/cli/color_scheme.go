package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/yantoz/finderex/pkg/ui/theme"
)

// ColorSchemeFunc derives fang's help colors from the default theme.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return ThemeColorScheme(theme.Default, c)
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           t.TitleStyle.GetForeground(),
		Title:          t.HandleStyle.GetForeground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        t.SelectedStyle.GetForeground(),
		Command:        t.SelectedStyle.GetForeground(),
		DimmedArgument: t.SubtleStyle.GetForeground(),
		Comment:        t.SubtleStyle.GetForeground(),
		Flag:           t.SelectedStyle.GetForeground(),
		Argument:       t.TitleStyle.GetForeground(),
		Description:    t.TitleStyle.GetForeground(),
		FlagDefault:    t.CategoryStyle.GetForeground(),
		QuotedString:   t.TitleStyle.GetForeground(),
		ErrorHeader: [2]color.Color{
			t.ErrorStyle.GetForeground(),
			t.DeletedStyle.GetForeground(),
		},
	}
}
