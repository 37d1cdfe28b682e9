// Copyright (C) 2025 ANP Works
//
// This file is part of didwba-go.
//
// didwba-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// didwba-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with didwba-go.  If not, see <https://www.gnu.org/licenses/>.

// Package didwba provides version information for didwba-go.
package didwba

const (
	// Version is the current version of didwba-go
	Version = "0.3.0"

	// DIDWBAMethodVersion is the did:wba method specification version
	// this library implements
	DIDWBAMethodVersion = "1.0"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	LibraryVersion      string
	DIDWBAMethodVersion string
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		LibraryVersion:      Version,
		DIDWBAMethodVersion: DIDWBAMethodVersion,
	}
}
