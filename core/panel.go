package core

// ST7735 command bytes used after the driver's own init sequence.
const (
	cmdSLPOUT = 0x11
	cmdNORON  = 0x13
	cmdINVOFF = 0x20
	cmdDISPON = 0x29
	cmdCOLMOD = 0x3A

	colmod16Bit = 0x05 // RGB565
)

// ConfigurePanel puts the panel in the state the renderer assumes:
// awake, 16-bit colour, normal (non-inverted) display on.
func ConfigurePanel(d DisplayDriver) {
	d.Select()
	d.Command(cmdSLPOUT)
	d.Deselect()
	DelayMS(120)

	d.Select()
	d.Command(cmdCOLMOD)
	d.Data(colmod16Bit)
	d.Command(cmdINVOFF)
	d.Command(cmdNORON)
	d.Command(cmdDISPON)
	d.Deselect()
}
