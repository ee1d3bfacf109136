/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package turtlestream

import "strconv"

// blankMinter generates fresh blank-node labels of the form
// "{prefix}genid{counter}", counter starting at 1 and increasing
// monotonically over the reader's lifetime. AddBlankPrefix may be called
// more than once; each call prepends further to the accumulated prefix so
// that a reader reused across related documents can keep widening its
// namespace without ever producing the same label twice.
type blankMinter struct {
	prefix  string
	counter int
}

func newBlankMinter(prefix string) *blankMinter {
	return &blankMinter{prefix: prefix}
}

func (m *blankMinter) addPrefix(prefix string) {
	m.prefix = prefix + m.prefix
}

func (m *blankMinter) mint() string {
	m.counter++
	return m.prefix + "genid" + strconv.Itoa(m.counter)
}

// rewriteReservedLabel applies the Turtle-mode "_:genid* -> _:docid*"
// collision guard: a user-written blank label that begins with the
// reserved "genid" prefix is rewritten to begin with "docid" instead, so
// it can never collide with a label this minter produces.
func rewriteReservedLabel(label string) string {
	const reserved = "genid"
	if len(label) >= len(reserved) && label[:len(reserved)] == reserved {
		return "docid" + label[len(reserved):]
	}
	return label
}
