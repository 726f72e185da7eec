package systems

import (
	"container/heap"
	"planboard/internal/domain"
)

// frontierItem обертка для элемента очереди приоритетов поиска пути
type frontierItem struct {
	Hex      domain.Hex
	Priority int // Накопленная стоимость пути. Чем меньше, тем раньше раскрываем.
	Seq      int // Порядок добавления, для детерминированного выбора при равной стоимости
	Index    int // Индекс в куче (нужен для update)
}

// frontier реализует heap.Interface и хранит frontierItems
type frontier []*frontierItem

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	// MinHeap по стоимости, при равенстве - кто раньше добавлен
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq frontier) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *frontier) Push(x interface{}) {
	n := len(*pq)
	item := x.(*frontierItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *frontier) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Update изменяет приоритет элемента в очереди
func (pq *frontier) Update(item *frontierItem, priority int) {
	item.Priority = priority
	heap.Fix(pq, item.Index)
}
