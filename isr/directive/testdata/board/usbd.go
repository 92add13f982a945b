//go:build nrf52840

package board

import _ "unsafe"

//go:linkname usbdHandler USBD_Handler
func usbdHandler() {}
