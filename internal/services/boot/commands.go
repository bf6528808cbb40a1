package boot

import (
	"fmt"
	"path/filepath"

	"phyboot/internal/domain"
)

// DefaultLoadAddress is where the image is loaded and then entered.
const DefaultLoadAddress = "0x90100000"

// LoadCommand enables USB storage and loads the image's base name from the
// first FAT partition to addr.
func LoadCommand(addr, imagePath, term string) domain.Command {
	return domain.Command(fmt.Sprintf("usb start; fatload usb 0 %s %s%s", addr, filepath.Base(imagePath), term))
}

// ListingLoadCommand is LoadCommand with a directory listing of the medium
// inserted before the load, so the console shows what the board can see.
func ListingLoadCommand(addr, imagePath, term string) domain.Command {
	return domain.Command(fmt.Sprintf("usb start; fatls usb 0; fatload usb 0 %s %s%s", addr, filepath.Base(imagePath), term))
}

// JumpCommand starts execution at addr.
func JumpCommand(addr, term string) domain.Command {
	return domain.Command(fmt.Sprintf("go %s%s", addr, term))
}
