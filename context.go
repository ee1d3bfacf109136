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

// readContext is the ambient state threaded through the recursive descent:
// the current graph (always the zero Node for Turtle/N-Triples; reserved
// for a future quad syntax), the current subject and predicate, and the
// enclosing scope's flags. It is passed by value down into productions
// that don't change scope (objectList, literal, resource) and threaded
// explicitly with a modified flags word into productions that open a new
// anonymous scope ("[ ... ]").
type readContext struct {
	graph     Node
	subject   Node
	predicate Node
	flags     Flags
}

// withFlags returns a copy of ctx with flags replaced. The grammar does not
// call it: parseBlankBracket builds its nested scope's readContext directly.
func (ctx readContext) withFlags(f Flags) readContext {
	ctx.flags = f
	return ctx
}
