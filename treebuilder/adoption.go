package treebuilder

import (
	"github.com/go-htmlcore/treebuilder/elements"
	"github.com/go-htmlcore/treebuilder/sink"
)

// adoptionAgency implements WHATWG HTML §13.2.5.2.5, driven entirely
// through stack/formatting-list indices and sink handles.
func (b *Builder) adoptionAgency(subject string) {
	if cur := b.currentFrame(); cur.tag == subject && cur.namespace == sink.HTML {
		if b.findFormattingIndex(subject) < 0 {
			b.popUntil(subject)
			return
		}
	}

	for outer := 0; outer < 8; outer++ {
		formattingIndex := b.findFormattingIndex(subject)
		if formattingIndex < 0 {
			return
		}
		formattingHandle := b.formatting[formattingIndex].handle

		openIndex := b.indexOfHandle(formattingHandle)
		if openIndex < 0 {
			b.removeFormattingEntry(formattingIndex)
			return
		}

		if !b.inDefaultScope(subject) {
			return
		}

		furthestBlock := -1
		for i := openIndex + 1; i < len(b.stack); i++ {
			if isSpecialFrame(b.stack[i]) {
				furthestBlock = i
				break
			}
		}

		if furthestBlock < 0 {
			for len(b.stack) > 0 {
				popped := b.pop()
				if popped.handle == formattingHandle {
					break
				}
			}
			b.removeFormattingEntry(formattingIndex)
			return
		}

		furthestBlockHandle := b.stack[furthestBlock].handle

		bookmark := formattingIndex + 1
		nodeIdx := furthestBlock
		lastNodeIdx := furthestBlock
		lastNode := furthestBlockHandle

		innerCounter := 0
		for {
			innerCounter++
			nodeIdx--
			if nodeIdx < 0 {
				return
			}
			node := b.stack[nodeIdx]
			if node.handle == formattingHandle {
				break
			}

			nodeFmtIdx := b.findFormattingIndexByHandle(node.handle)
			hasNodeFormatting := nodeFmtIdx >= 0
			if innerCounter > 3 && hasNodeFormatting {
				b.removeFormattingEntry(nodeFmtIdx)
				if nodeFmtIdx < bookmark {
					bookmark--
				}
				hasNodeFormatting = false
				nodeFmtIdx = -1
			}

			if !hasNodeFormatting {
				b.sink.UnrefNode(node.handle)
				b.stack = append(b.stack[:nodeIdx], b.stack[nodeIdx+1:]...)
				if lastNodeIdx > nodeIdx {
					lastNodeIdx--
				}
				// nodeIdx is left pointing at the removal slot (now holding
				// what used to sit one above it); the next loop iteration's
				// leading decrement moves to the element that was directly
				// below the removed node, exactly as intended.
				continue
			}

			entry := b.formatting[nodeFmtIdx]
			newHandle, code := b.sink.CreateElement(sink.HTML, entry.tag, entry.attrs)
			if code != sink.OK {
				panic(&ResourceError{Op: "adoption agency clone", Err: code})
			}
			b.sink.RefNode(newHandle)
			b.sink.UnrefNode(entry.handle)
			b.formatting[nodeFmtIdx].handle = newHandle

			b.sink.UnrefNode(b.stack[nodeIdx].handle)
			b.sink.RefNode(newHandle)
			b.stack[nodeIdx].handle = newHandle
			b.stack[nodeIdx].tag = entry.tag
			b.stack[nodeIdx].typ = elements.TypeFromName(entry.tag)

			if lastNode == furthestBlockHandle {
				bookmark = nodeFmtIdx + 1
			}

			if parent := b.sink.GetParent(lastNode, false); parent != 0 {
				if _, code := b.sink.RemoveChild(parent, lastNode); code != sink.OK {
					panic(&ResourceError{Op: "adoption agency detach", Err: code})
				}
			}
			if _, code := b.sink.AppendChild(newHandle, lastNode); code != sink.OK {
				panic(&ResourceError{Op: "adoption agency relocate", Err: code})
			}

			lastNode = newHandle
			lastNodeIdx = nodeIdx
		}

		commonAncestor := b.stack[openIndex-1]
		if parent := b.sink.GetParent(lastNode, false); parent != 0 {
			if _, code := b.sink.RemoveChild(parent, lastNode); code != sink.OK {
				panic(&ResourceError{Op: "adoption agency detach", Err: code})
			}
		}
		if shouldFosterParentAdoption(commonAncestor) {
			b.insertFosterNode(lastNode)
		} else if _, code := b.sink.AppendChild(commonAncestor.handle, lastNode); code != sink.OK {
			panic(&ResourceError{Op: "adoption agency reattach", Err: code})
		}

		entry := b.formatting[formattingIndex]
		newFormatting, code := b.sink.CreateElement(sink.HTML, entry.tag, entry.attrs)
		if code != sink.OK {
			panic(&ResourceError{Op: "adoption agency recreate", Err: code})
		}
		b.sink.RefNode(newFormatting)
		b.sink.UnrefNode(entry.handle)
		b.formatting[formattingIndex].handle = newFormatting

		if code := b.sink.ReparentChildren(furthestBlockHandle, newFormatting); code != sink.OK {
			panic(&ResourceError{Op: "adoption agency reparent", Err: code})
		}
		if _, code := b.sink.AppendChild(furthestBlockHandle, newFormatting); code != sink.OK {
			panic(&ResourceError{Op: "adoption agency append", Err: code})
		}

		moved := b.formatting[formattingIndex]
		b.formatting = append(b.formatting[:formattingIndex], b.formatting[formattingIndex+1:]...)
		bookmark--
		if bookmark < 0 {
			bookmark = 0
		}
		if bookmark > len(b.formatting) {
			bookmark = len(b.formatting)
		}
		b.formatting = append(b.formatting, formattingEntry{})
		copy(b.formatting[bookmark+1:], b.formatting[bookmark:])
		b.formatting[bookmark] = moved

		if idx := b.indexOfHandle(formattingHandle); idx >= 0 {
			b.sink.UnrefNode(b.stack[idx].handle)
			b.stack = append(b.stack[:idx], b.stack[idx+1:]...)
		}
		fIdx := b.indexOfHandle(furthestBlockHandle)
		b.sink.RefNode(newFormatting)
		b.insertFrameAt(fIdx+1, frame{namespace: sink.HTML, tag: entry.tag, typ: elements.TypeFromName(entry.tag), handle: newFormatting})
	}
}

func isSpecialFrame(f frame) bool {
	return f.namespace == sink.HTML && (elements.IsSpecial(f.typ) || elements.IsScoping(f.typ))
}

func shouldFosterParentAdoption(f frame) bool {
	if f.namespace != sink.HTML {
		return false
	}
	return tableFosterTargets[f.tag]
}

// insertFosterNode inserts node using the same table-relative
// positioning rule as fosterInsertionLocation, but for a node that is
// not being created fresh (used by the adoption agency).
func (b *Builder) insertFosterNode(node sink.Handle) {
	tableIdx := b.indexOfTag("table")
	if tableIdx < 0 {
		if _, code := b.sink.AppendChild(b.currentHandle(), node); code != sink.OK {
			panic(&ResourceError{Op: "adoption agency foster append", Err: code})
		}
		return
	}
	tableHandle := b.stack[tableIdx].handle
	parent := b.sink.GetParent(tableHandle, false)
	if parent == 0 {
		if _, code := b.sink.AppendChild(b.document, node); code != sink.OK {
			panic(&ResourceError{Op: "adoption agency foster append", Err: code})
		}
		return
	}
	if _, code := b.sink.InsertBefore(parent, node, tableHandle); code != sink.OK {
		panic(&ResourceError{Op: "adoption agency foster insert", Err: code})
	}
}

func (b *Builder) insertFrameAt(index int, f frame) {
	if index < 0 {
		index = 0
	}
	if index > len(b.stack) {
		index = len(b.stack)
	}
	b.stack = append(b.stack, frame{})
	copy(b.stack[index+1:], b.stack[index:])
	b.stack[index] = f
}
