//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

// setTitleBarColor switches the window to dark mode and paints the
// caption and border with the given color.
func setTitleBarColor(window *glfw.Window, r, g, b float32) {
	win32 := window.GetWin32Window()
	if win32 == nil {
		return
	}
	hwnd := uintptr(unsafe.Pointer(win32))

	var useDarkMode int32 = 1
	dwmSet(hwnd, DWMWA_USE_IMMERSIVE_DARK_MODE, unsafe.Pointer(&useDarkMode), unsafe.Sizeof(useDarkMode))

	colorBGR := uint32(uint8(b*255)) | uint32(uint8(g*255))<<8 | uint32(uint8(r*255))<<16
	dwmSet(hwnd, DWMWA_BORDER_COLOR, unsafe.Pointer(&colorBGR), unsafe.Sizeof(colorBGR))
	dwmSet(hwnd, DWMWA_CAPTION_COLOR, unsafe.Pointer(&colorBGR), unsafe.Sizeof(colorBGR))
}

func dwmSet(hwnd, attr uintptr, value unsafe.Pointer, size uintptr) {
	procDwmSetWindowAttribute.Call(hwnd, attr, uintptr(value), size)
}
