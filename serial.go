// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import "code.hybscloud.com/atomix"

// Serial identifies a channel within the process.
// Each call to New assigns the next value; both handles of a pair share it.
type Serial = uint32

var serials atomix.Uint32

func nextSerial() Serial {
	return serials.Add(1)
}
