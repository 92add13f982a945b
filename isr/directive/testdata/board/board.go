package board

var radioEvents int

//sigo:interrupt _RADIO_Handler RADIO_Handler
func _RADIO_Handler() {
	radioEvents++
}
