//go:build release

package footer

func (Footer) leftContent() string { return "" }
